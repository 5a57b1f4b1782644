package response

// ErrResponse is the uniform error body every handler returns.
type ErrResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes matched by API clients.
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeNotFound            = "NOT_FOUND"
	CodeLocked              = "LOCKED"
	CodeSlotUnavailable     = "SLOT_NOT_AVAILABLE"
	CodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	CodeValidation          = "VALIDATION_FAILED"
	CodeStoreUnavailable    = "STORE_UNAVAILABLE"
	CodeInternal            = "REQUEST_FAILED"
)

func Error(code, message string) ErrResponse {
	return ErrResponse{Code: code, Message: message}
}
