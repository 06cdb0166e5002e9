package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a repository/database error into a code and message
// safe to return to clients. Sensitive driver detail stays in the logs.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Une erreur est survenue",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// Postgres errors carry SQLSTATE codes through the driver.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return duplicateKeyInfo(context)
		case "23503": // foreign_key_violation
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "L'élément est référencé par d'autres données",
			}
		case "23502": // not_null_violation
			return ErrorInfo{
				Code:    ValidationInvalidInput,
				Message: "Un champ obligatoire est manquant",
			}
		}
	}

	// SQLite in tests and some pooled paths surface constraint failures as
	// plain text, so the string checks stay as a fallback.
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		return duplicateKeyInfo(context)
	}
	if strings.Contains(errStr, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "L'élément est référencé par d'autres données",
		}
	}

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Service indisponible. Veuillez réessayer plus tard",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Une erreur est survenue. Veuillez réessayer plus tard",
	}
}

// ParseAndRespond parses an error and writes the standard envelope.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

func duplicateKeyInfo(context string) ErrorInfo {
	switch context {
	case "user":
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Cette adresse e-mail est déjà utilisée"}
	case "product":
		return ErrorInfo{Code: ProductSKUExists, Message: "Cette référence produit existe déjà"}
	default:
		return ErrorInfo{Code: ResourceConflict, Message: "Cet élément existe déjà"}
	}
}

func notFoundMessage(context string) string {
	switch context {
	case "category":
		return "Rayon introuvable"
	case "product":
		return "Produit introuvable"
	case "order":
		return "Commande introuvable"
	case "quotation":
		return "Devis introuvable"
	case "user":
		return "Utilisateur introuvable"
	default:
		return "Élément introuvable"
	}
}
