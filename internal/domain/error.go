package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnauthorized       = errors.New("caller identity missing or invalid")
	ErrMissingCode        = errors.New("activation code is empty")
	ErrCodeAlreadyUsed    = errors.New("activation code already used")
	ErrServerConfig       = errors.New("required server configuration is missing")
	ErrRateLimited        = errors.New("too many redemption attempts")
	ErrOperationFailed    = errors.New("database operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid database execution context")
)

// ErrorKind is the closed set of outcome identifiers returned to callers.
type ErrorKind string

const (
	KindUnauthorized        ErrorKind = "unauthorized"
	KindMissingCode         ErrorKind = "missing_code"
	KindInvalidFormat       ErrorKind = "invalid_format"
	KindInvalidEncoding     ErrorKind = "invalid_encoding"
	KindInvalidPayload      ErrorKind = "invalid_payload"
	KindInvalidVersionOrExp ErrorKind = "invalid_version_or_exp"
	KindInvalidSignature    ErrorKind = "invalid_signature"
	KindCodeAlreadyUsed     ErrorKind = "code_already_used"
	KindServerConfig        ErrorKind = "server_config"
	KindDBError             ErrorKind = "db_error"
	KindRateLimited         ErrorKind = "rate_limited"
	KindInvalidArgument     ErrorKind = "invalid_argument"
	KindAlreadyExists       ErrorKind = "already_exists"
)

// kinded is satisfied by errors that carry their own kind string,
// e.g. the license verification errors.
type kinded interface {
	Kind() string
}

// KindOf maps an error to the kind reported to callers.
// Anything unrecognised is a storage failure.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var k kinded
	if errors.As(err, &k) {
		return ErrorKind(k.Kind())
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrMissingCode):
		return KindMissingCode
	case errors.Is(err, ErrCodeAlreadyUsed):
		return KindCodeAlreadyUsed
	case errors.Is(err, ErrServerConfig):
		return KindServerConfig
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	default:
		return KindDBError
	}
}

// IsValidation reports whether the kind describes a rejected input rather than
// a failure of the service itself.
func (k ErrorKind) IsValidation() bool {
	switch k {
	case KindMissingCode, KindInvalidFormat, KindInvalidEncoding, KindInvalidPayload,
		KindInvalidVersionOrExp, KindInvalidSignature, KindCodeAlreadyUsed,
		KindInvalidArgument, KindAlreadyExists:
		return true
	}
	return false
}

// Message returns end-user copy for a kind. Unknown kinds render as-is so that
// newer servers can introduce kinds without breaking older clients.
func (k ErrorKind) Message() string {
	switch k {
	case KindUnauthorized:
		return "Please sign in before redeeming a code."
	case KindMissingCode:
		return "Enter an activation code."
	case KindInvalidFormat, KindInvalidEncoding, KindInvalidPayload:
		return "This activation code is malformed. Check for typos and try again."
	case KindInvalidVersionOrExp:
		return "This activation code is not supported by this version."
	case KindInvalidSignature:
		return "This activation code is not valid."
	case KindCodeAlreadyUsed:
		return "This activation code has already been used."
	case KindServerConfig:
		return "Activation is temporarily unavailable."
	case KindDBError:
		return "Something went wrong. Please try again later."
	case KindRateLimited:
		return "Too many attempts. Please wait a minute and try again."
	case KindInvalidArgument:
		return "The request is invalid."
	case KindAlreadyExists:
		return "This has already been registered."
	default:
		return string(k)
	}
}
