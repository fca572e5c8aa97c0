// Package license implements offline-verifiable activation codes: a JSON payload
// describing a benefit, signed with Ed25519 and packed into a typeable string.
package license

// VerifyError is a verification failure with a stable kind identifier.
type VerifyError struct {
	kind string
	msg  string
}

func (e *VerifyError) Error() string { return e.msg }

// Kind returns the identifier reported to callers, e.g. "invalid_signature".
func (e *VerifyError) Kind() string { return e.kind }

var (
	// ErrInvalidFormat indicates a missing prefix or a misplaced separator.
	ErrInvalidFormat = &VerifyError{kind: "invalid_format", msg: "invalid activation code format"}
	// ErrInvalidEncoding indicates a segment that is not base64url.
	ErrInvalidEncoding = &VerifyError{kind: "invalid_encoding", msg: "invalid activation code encoding"}
	// ErrInvalidPayload indicates payload bytes that are not a JSON object.
	ErrInvalidPayload = &VerifyError{kind: "invalid_payload", msg: "invalid activation code payload"}
	// ErrInvalidVersionOrExp indicates an unsupported version or a bad days value.
	ErrInvalidVersionOrExp = &VerifyError{kind: "invalid_version_or_exp", msg: "unsupported activation code version or benefit"}
	// ErrInvalidSignature indicates the signature does not match the payload.
	ErrInvalidSignature = &VerifyError{kind: "invalid_signature", msg: "invalid activation code signature"}
)
