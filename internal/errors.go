package moonbridge

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates which bridge operation produced the error.
type Phase string

const (
	PhaseStartup  Phase = "startup"
	PhaseEncode   Phase = "encode"
	PhaseDecode   Phase = "decode"
	PhaseRegister Phase = "register"
	PhaseLookup   Phase = "lookup"
	PhaseAccess   Phase = "access"
	PhaseBoundary Phase = "boundary"
)

// ErrorKind categorizes the error.
type ErrorKind string

const (
	KindUnsupported     ErrorKind = "unsupported"
	KindContract        ErrorKind = "contract"
	KindAlreadyAttached ErrorKind = "already_attached"
	KindNotFound        ErrorKind = "not_found"
	KindReadOnly        ErrorKind = "read_only"
	KindCoercion        ErrorKind = "coercion"
	KindRegistration    ErrorKind = "registration"
	KindBoundary        ErrorKind = "boundary"
	KindABI             ErrorKind = "abi"
	KindMemory          ErrorKind = "memory"
	KindClosed          ErrorKind = "closed"
)

// Error is the structured error returned by every bridge operation.
type Error struct {
	Cause    error
	Phase    Phase
	Kind     ErrorKind
	GoType   string
	Property string
	Owner    string
	Detail   string
}

func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Owner != "" || e.Property != "" {
		b.WriteString(" at ")
		b.WriteString(e.Owner)
		if e.Property != "" {
			b.WriteByte('.')
			b.WriteString(e.Property)
		}
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Kind, and on Phase when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrUnsupportedValueKind    = &Error{Kind: KindUnsupported}
	ErrCallbackAlreadyAttached = &Error{Kind: KindAlreadyAttached}
	ErrPropertyNotFound        = &Error{Kind: KindNotFound}
	ErrReadOnly                = &Error{Kind: KindReadOnly}
	ErrCoercionFailed          = &Error{Kind: KindCoercion}
	ErrBridgeClosed            = &Error{Kind: KindClosed}
	ErrABIMismatch             = &Error{Kind: KindABI}
)

// ErrorBuilder provides structured error construction.
type ErrorBuilder struct {
	err Error
}

func NewError(phase Phase, kind ErrorKind) *ErrorBuilder {
	return &ErrorBuilder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

func (b *ErrorBuilder) GoType(v any) *ErrorBuilder {
	b.err.GoType = fmt.Sprintf("%T", v)
	return b
}

func (b *ErrorBuilder) Property(owner, name string) *ErrorBuilder {
	b.err.Owner = owner
	b.err.Property = name
	return b
}

func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

func (b *ErrorBuilder) Detail(msg string, args ...any) *ErrorBuilder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

func (b *ErrorBuilder) Build() *Error {
	return &b.err
}

// MoonErrorCode is the error code handed back to the native side by the
// boundary callbacks. Zero means success.
type MoonErrorCode int32

const (
	MoonErrorNone             MoonErrorCode = 0
	MoonErrorException        MoonErrorCode = 1
	MoonErrorArgument         MoonErrorCode = 2
	MoonErrorInvalidOperation MoonErrorCode = 3
	MoonErrorNotFound         MoonErrorCode = 4
)

// MoonErrorSize is the size of the error record written for the native side:
// an int32 code followed by the address of a NUL terminated message.
const MoonErrorSize = 8

// MoonError is an error that crossed the native boundary as a code and a
// message.
type MoonError struct {
	Code    MoonErrorCode
	Message string
}

func (e *MoonError) Error() string {
	return fmt.Sprintf("moon error %d: %s", e.Code, e.Message)
}

func moonErrorCodeFor(err error) MoonErrorCode {
	var bridgeErr *Error
	if !errors.As(err, &bridgeErr) {
		return MoonErrorException
	}
	switch bridgeErr.Kind {
	case KindUnsupported, KindCoercion:
		return MoonErrorArgument
	case KindContract, KindAlreadyAttached, KindReadOnly:
		return MoonErrorInvalidOperation
	case KindNotFound:
		return MoonErrorNotFound
	}
	return MoonErrorException
}
