package enrollmentService

import "fmt"

// ErrorKind tags each way the completion pipeline can fail. Controllers map
// kinds onto HTTP statuses; the service itself never touches HTTP.
type ErrorKind string

const (
	ErrNotFound             ErrorKind = "NOT_FOUND"             // unknown token
	ErrTokenExpired         ErrorKind = "TOKEN_EXPIRED"         // token past its expiry
	ErrValidation           ErrorKind = "VALIDATION"            // password/profile shape
	ErrSignatureIncomplete  ErrorKind = "SIGNATURE_INCOMPLETE"  // envelope not completed
	ErrPaymentIncomplete    ErrorKind = "PAYMENT_INCOMPLETE"    // terminal, even after fallback
	ErrSchedulesNotCreated  ErrorKind = "SCHEDULES_NOT_CREATED" // retryable race, try again shortly
	ErrDuplicateAccount     ErrorKind = "DUPLICATE_ACCOUNT"     // email already registered
	ErrMissingUserLink      ErrorKind = "MISSING_USER_LINK"     // existing-user flow without user_id
	ErrProvisioning         ErrorKind = "PROVISIONING_FAILURE"  // identity/profile/membership insert failed
	ErrProcessorUnavailable ErrorKind = "PROCESSOR_UNAVAILABLE" // credentials missing or processor call failed
	ErrInternal             ErrorKind = "INTERNAL"
)

// Error is a tagged pipeline failure
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrap(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}
