// Package errors provides the structured error type shared by the section codecs.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the field path, the byte offset inside the section
// payload, and an optional cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindOutOfOrder).
//		Path("name", "function").
//		Offset(12).
//		Detail("subsection %d after %d", 1, 4).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MalformedInteger(offset, 32, "too many bytes")
//	err := errors.TrailingBytes(offset, 3)
//
// Sentinels such as ErrOutOfOrder match errors of the same kind in any phase:
//
//	if errors.Is(err, nucleideerrors.ErrOutOfOrder) { ... }
package errors
