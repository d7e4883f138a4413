package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode Phase = "decode" // bytes to typed section
	PhaseEncode Phase = "encode" // typed section to bytes
	PhaseBuild  Phase = "build"  // incremental construction
	PhaseModule Phase = "module" // custom section list of a module
)

// Kind categorizes the error
type Kind string

const (
	KindMalformedInteger    Kind = "malformed_integer"
	KindMalformedString     Kind = "malformed_string"
	KindTruncated           Kind = "truncated"
	KindUnknownDiscriminant Kind = "unknown_discriminant"
	KindOutOfOrder          Kind = "out_of_order"
	KindDuplicateKey        Kind = "duplicate_key"
	KindTrailingBytes       Kind = "trailing_bytes"
	KindSectionOrder        Kind = "section_order"
	KindBuilderContract     Kind = "builder_contract"
	KindInvalidModule       Kind = "invalid_module"
)

// Sentinels for errors.Is. They carry no phase and match an error of the
// same kind raised in any phase.
var (
	ErrMalformedInteger    = &Error{Kind: KindMalformedInteger, Offset: -1}
	ErrMalformedString     = &Error{Kind: KindMalformedString, Offset: -1}
	ErrTruncated           = &Error{Kind: KindTruncated, Offset: -1}
	ErrUnknownDiscriminant = &Error{Kind: KindUnknownDiscriminant, Offset: -1}
	ErrOutOfOrder          = &Error{Kind: KindOutOfOrder, Offset: -1}
	ErrDuplicateKey        = &Error{Kind: KindDuplicateKey, Offset: -1}
	ErrTrailingBytes       = &Error{Kind: KindTrailingBytes, Offset: -1}
	ErrSectionOrder        = &Error{Kind: KindSectionOrder, Offset: -1}
	ErrBuilderContract     = &Error{Kind: KindBuilderContract, Offset: -1}
	ErrInvalidModule       = &Error{Kind: KindInvalidModule, Offset: -1}
)

// Error is the structured error type used by every codec package.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
	// Offset is the byte position within the section payload, or -1 when
	// the error is not tied to a position.
	Offset int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" in ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. An empty phase on the
// target matches any phase.
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

// Within prepends a path segment and returns the error, so nested decoders
// can annotate where a failure happened as it propagates outwards.
func Within(err error, segment string) error {
	if e, ok := err.(*Error); ok {
		e.Path = append([]string{segment}, e.Path...)
		return e
	}
	return err
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Offset sets the byte position
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors, one per failure category

// MalformedInteger reports a variable-length integer that is too long for
// its target width, has bits set beyond it, or runs off the end of input.
func MalformedInteger(offset int, bits uint, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMalformedInteger,
		Offset: offset,
		Detail: fmt.Sprintf("u%d: %s", bits, detail),
	}
}

// MalformedString reports a length-prefixed string that overruns the
// buffer or is not valid UTF-8.
func MalformedString(offset int, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMalformedString,
		Offset: offset,
		Detail: detail,
	}
}

// InvalidUTF8 creates a malformed string error with a preview of the bytes
func InvalidUTF8(offset int, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return MalformedString(offset, fmt.Sprintf("invalid UTF-8 sequence: %x", preview))
}

// Truncated reports a fixed-size read that needs more bytes than remain.
func Truncated(offset, want, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTruncated,
		Offset: offset,
		Detail: fmt.Sprintf("need %d bytes, %d remain", want, have),
		Value:  want,
	}
}

// UnknownDiscriminant reports a subsection id, kind tag or enumerated value
// outside its known set.
func UnknownDiscriminant(offset int, what string, value any) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnknownDiscriminant,
		Offset: offset,
		Detail: fmt.Sprintf("unknown %s %v", what, value),
		Value:  value,
	}
}

// OutOfOrder reports a discriminant that is not strictly greater than the
// previous one.
func OutOfOrder(offset int, what string, got, min uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindOutOfOrder,
		Offset: offset,
		Detail: fmt.Sprintf("%s %d must be at least %d", what, got, min),
		Value:  got,
	}
}

// DuplicateKey reports a repeated key in a map when duplicates are rejected.
func DuplicateKey(offset int, key uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindDuplicateKey,
		Offset: offset,
		Detail: fmt.Sprintf("key %d appears more than once", key),
		Value:  key,
	}
}

// TrailingBytes reports a framed payload that was not fully consumed.
func TrailingBytes(offset, remaining int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTrailingBytes,
		Offset: offset,
		Detail: fmt.Sprintf("%d unconsumed bytes", remaining),
		Value:  remaining,
	}
}

// SectionOrder reports a module whose known custom sections are repeated
// or out of their relative order.
func SectionOrder(index int, name, detail string) *Error {
	return &Error{
		Phase:  PhaseModule,
		Kind:   KindSectionOrder,
		Offset: -1,
		Path:   []string{name},
		Detail: fmt.Sprintf("custom section #%d: %s", index, detail),
		Value:  index,
	}
}

// BuilderContract reports caller misuse while constructing a value.
func BuilderContract(phase Phase, detail string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBuilderContract,
		Offset: -1,
		Detail: detail,
		Value:  value,
	}
}

// InvalidModule reports a module container that cannot be split into
// sections.
func InvalidModule(offset int, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseModule,
		Kind:   KindInvalidModule,
		Offset: offset,
		Detail: detail,
		Cause:  cause,
	}
}
