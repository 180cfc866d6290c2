package httperr

import "errors"

// Business error codes shared between use cases and handlers.
const (
	CodeRecordNotFound   = "record_not_found"
	CodeUserNotFound     = "user_not_found"
	CodeAccessDenied     = "access_denied"
	CodeIdentityMismatch = "identity_mismatch"
	CodeAlreadyViewer    = "already_viewer"
	CodeEmailTaken       = "email_already_registered"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
