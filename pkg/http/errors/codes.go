package errors

// Error codes returned in ErrorResponse.Error.
const (
	// Request errors
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeMissingField   = "missing_field"

	// Resource errors
	ErrCodeNotFound         = "not_found"
	ErrCodeQuestionNotFound = "question_not_found"
	ErrCodeModuleNotFound   = "module_not_found"

	// Grading errors
	ErrCodeInvalidResponse = "invalid_response"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)
