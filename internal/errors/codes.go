package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The storefront frontend maps these codes to localized messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Catalog (CATALOG_) ====================
	CategoryNotFound = "CATALOG_CATEGORY_NOT_FOUND"
	ProductNotFound  = "CATALOG_PRODUCT_NOT_FOUND"
	ProductSKUExists = "CATALOG_SKU_EXISTS"

	// ==================== Cart (CART_) ====================
	CartLineNotFound = "CART_LINE_NOT_FOUND"

	// ==================== Orders & quotations (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderEmptyCart         = "ORDER_EMPTY_CART"
	OrderInsufficientStock = "ORDER_INSUFFICIENT_STOCK"
	OrderWrongChannel      = "ORDER_WRONG_CHANNEL"
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION"
	OrderCreditLimit       = "ORDER_CREDIT_LIMIT"

	// ==================== Session (SESSION_) ====================
	SessionInvalidEvent = "SESSION_INVALID_EVENT"

	// ==================== Validation / generic ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ResourceNotFound       = "RESOURCE_NOT_FOUND"
	ResourceConflict       = "RESOURCE_CONFLICT"
	InternalServerError    = "INTERNAL_SERVER_ERROR"
	InternalExternalAPI    = "INTERNAL_EXTERNAL_API"
)
