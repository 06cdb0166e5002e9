package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateDocumentNumber builds a human-readable order/quotation number,
// e.g. "ORD-20260829-7F3A2C". The uuid fragment keeps same-day numbers unique
// without a database sequence.
func GenerateDocumentNumber(prefix string) string {
	fragment := strings.ToUpper(uuid.New().String()[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), fragment)
}

// GenerateSessionID returns an opaque identifier for a browsing session.
func GenerateSessionID() string {
	return uuid.New().String()
}
