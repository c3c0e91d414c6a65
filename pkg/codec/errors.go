package codec

import (
	"errors"
	"fmt"
)

// Kind classifies a codec failure.
type Kind uint8

const (
	// KindStream means the underlying source or sink failed or ran short.
	KindStream Kind = iota + 1
	// KindFormat means the bytes were read but do not describe a valid value.
	KindFormat
	// KindOverflow means a variable-length integer does not fit in 32 bits.
	KindOverflow
	// KindCompression means the compression engine rejected its input.
	KindCompression
	// KindUnsupported means a well-formed variant this codec does not handle.
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindStream:
		return "stream error"
	case KindFormat:
		return "format error"
	case KindOverflow:
		return "integer overflow"
	case KindCompression:
		return "compression error"
	case KindUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Error carries the kind of a failure, the operation that hit it and the cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op == "" && e.Err == nil:
		return e.Kind.String()
	case e.Err == nil:
		return e.Op + ": " + e.Kind.String()
	case e.Op == "":
		return e.Err.Error()
	default:
		return e.Op + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the bare sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrStream      = &Error{Kind: KindStream}
	ErrFormat      = &Error{Kind: KindFormat}
	ErrOverflow    = &Error{Kind: KindOverflow}
	ErrCompression = &Error{Kind: KindCompression}
	ErrUnsupported = &Error{Kind: KindUnsupported}
)

// Errorf builds an *Error of the given kind with a formatted cause.
func Errorf(kind Kind, op, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches op to err. If err already carries a Kind, that kind wins so
// the innermost classification survives any number of wraps.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	if k := KindOf(err); k != 0 {
		kind = k
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}
