package parquet

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies the failure taxonomy the reader surfaces at its boundary.
type ErrorKind int

const (
	// ErrIO covers file or memory-mapping failures.
	ErrIO ErrorKind = iota
	// ErrCorrupt covers bad headers, truncated streams, level/value mismatches,
	// CRC mismatches and out-of-range slices.
	ErrCorrupt
	// ErrUnsupported covers recognized-but-unimplemented encodings or codecs.
	ErrUnsupported
	// ErrSchema covers a requested column absent from the file or projection.
	ErrSchema
	// ErrType covers a typed accessor used against an incompatible physical type.
	ErrType
	// ErrNullAccess covers a non-nullable accessor used on a null value.
	ErrNullAccess
)

func (k ErrorKind) String() string {
	switch k {
	case ErrIO:
		return "io"
	case ErrCorrupt:
		return "corrupt"
	case ErrUnsupported:
		return "unsupported"
	case ErrSchema:
		return "schema"
	case ErrType:
		return "type"
	case ErrNullAccess:
		return "null_access"
	default:
		return "unknown"
	}
}

// Error is the error type surfaced at every boundary described in spec §7: it carries
// the file, column and offsets involved plus the codec/encoding where meaningful.
type Error struct {
	Kind     ErrorKind
	File     string
	Column   string
	Offset   int64
	Codec    string
	Encoding string
	cause    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("parquet: %s", e.Kind)
	if e.File != "" {
		msg += fmt.Sprintf(" file=%q", e.File)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" column=%q", e.Column)
	}
	if e.Offset != 0 {
		msg += fmt.Sprintf(" offset=%d", e.Offset)
	}
	if e.Codec != "" {
		msg += fmt.Sprintf(" codec=%s", e.Codec)
	}
	if e.Encoding != "" {
		msg += fmt.Sprintf(" encoding=%s", e.Encoding)
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithColumn returns a copy of e annotated with the given column name, unless already set.
func (e *Error) WithColumn(name string) *Error {
	cp := *e
	if cp.Column == "" {
		cp.Column = name
	}
	return &cp
}

// WithFile returns a copy of e annotated with the given file name, unless already set.
func (e *Error) WithFile(name string) *Error {
	cp := *e
	if cp.File == "" {
		cp.File = name
	}
	return &cp
}

func newError(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, cause: cause}
}

func ioErrorf(format string, args ...interface{}) *Error {
	return newError(ErrIO, errors.Errorf(format, args...))
}

func corruptf(format string, args ...interface{}) *Error {
	return newError(ErrCorrupt, errors.Errorf(format, args...))
}

func wrapCorrupt(err error, format string, args ...interface{}) *Error {
	return newError(ErrCorrupt, errors.Wrapf(err, format, args...))
}

func unsupportedf(format string, args ...interface{}) *Error {
	return newError(ErrUnsupported, errors.Errorf(format, args...))
}

func schemaf(format string, args ...interface{}) *Error {
	return newError(ErrSchema, errors.Errorf(format, args...))
}

func typef(format string, args ...interface{}) *Error {
	return newError(ErrType, errors.Errorf(format, args...))
}

func nullAccessf(format string, args ...interface{}) *Error {
	return newError(ErrNullAccess, errors.Errorf(format, args...))
}

// AsError unwraps err into a *Error, following the pkg/errors cause chain.
func AsError(err error) (*Error, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return nil, false
}
