package catalog

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes reported by the loaders.
const (
	ErrCodeGeneric           = "E001" // Generic/unknown error
	ErrCodeUnsupportedFormat = "E002" // File extension not recognized
	ErrCodeParse             = "E004" // CUE or YAML syntax error
	ErrCodeNotFound          = "E005" // Path not found
	ErrCodeSchema            = "E006" // Value does not match the catalogue schema

	ErrCodeMissingField    = "E201" // Required field absent
	ErrCodeDuplicateName   = "E202" // Two species share a name
	ErrCodeUnknownDaughter = "E203" // Daughter names no species
	ErrCodeInvalidValue    = "E204" // Field present but out of range
)

// Position locates a value in a catalogue file. The zero value means
// unknown.
type Position struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the position carries a line.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

func fromToken(pos token.Pos) Position {
	if !pos.IsValid() {
		return Position{}
	}
	return Position{File: pos.Filename(), Line: pos.Line(), Column: pos.Column()}
}

// LoadError reports a problem in a catalogue file.
type LoadError struct {
	Code    string
	Field   string
	Message string
	Pos     Position
}

func (e *LoadError) Error() string {
	switch {
	case e.Pos.IsValid() && e.Field != "":
		return fmt.Sprintf("%s: %s: %s: %s", e.Pos, e.Code, e.Field, e.Message)
	case e.Pos.IsValid():
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Code, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// formatCUEError turns the first CUE error into a positioned LoadError.
func formatCUEError(code string, err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}

	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = fromToken(positions[0])
	}
	return le
}
