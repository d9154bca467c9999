package services

import "fmt"

// DataAccessError reports a failed store operation. The store's own error is
// logged where it happens and deliberately not carried here.
type DataAccessError struct {
	Op      string
	Message string
}

func (e *DataAccessError) Error() string {
	return e.Message
}

// AuthErrorType distinguishes credential failures reported by a provider.
type AuthErrorType string

const (
	CredentialsSignin  AuthErrorType = "CredentialsSignin"
	CallbackRouteError AuthErrorType = "CallbackRouteError"
	ConfigurationError AuthErrorType = "Configuration"
)

// AuthError is a typed sign-in failure.
type AuthError struct {
	Type AuthErrorType
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Type, e.Err)
	}
	return string(e.Type)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
