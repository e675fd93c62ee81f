package facts

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes for fact loading. The CLI reports these verbatim.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeScanError      = "E002" // Directory scan error
	ErrCodeNoFiles        = "E003" // No CUE files found
	ErrCodeLoadFailed     = "E004" // CUE file failed to compile
	ErrCodeNotFound       = "E005" // Path not found
	ErrCodeBuildFailed    = "E006" // Schema validation or decode failed
	ErrCodeInvalidVersion = "E008" // Version key is not a dotted numeric version
	ErrCodeDuplicateName  = "E009" // Package names differ only in case
)

// LoadError is a fact-loading failure, positioned in CUE source when possible.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Line returns the 1-based source line, or 0 when unknown.
func (e *LoadError) Line() int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return 0
}

// fromCUEError splits a CUE error into positioned LoadErrors.
func fromCUEError(code string, err error) []error {
	cueErrs := errors.Errors(err)
	if len(cueErrs) == 0 {
		return []error{&LoadError{Code: code, Message: err.Error()}}
	}

	out := make([]error, 0, len(cueErrs))
	for _, e := range cueErrs {
		le := &LoadError{Code: code, Message: e.Error()}
		if positions := errors.Positions(e); len(positions) > 0 {
			le.Pos = positions[0]
		}
		out = append(out, le)
	}
	return out
}
