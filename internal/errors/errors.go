// Package errors defines llamac's structured error taxonomy. The
// parser and the semantic analyzer report failures as a *Report
// wrapped in a *ReportError, so callers can errors.As() their way back
// to the structured data instead of scraping message text. The scanner
// and lexer return their own error types, not a *Report.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/llamalang/llamac/internal/token"
)

// Schema identifies the wire shape of a Report, for callers that
// serialize it (see Report.JSON).
const Schema = "llama.error/v1"

// Report is the canonical structured error value. Every builder in
// this package returns one, wrapped via Wrap; internal/parser and
// internal/sema report their failures through these builders.
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *token.Span    `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// ReportError wraps a Report so it survives as a normal Go error
// while remaining recoverable via As.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	if e.Rep.Span != nil {
		return fmt.Sprintf("%s: %s: %s", e.Rep.Span, e.Rep.Code, e.Rep.Message)
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// Wrap turns a Report into an error. A nil Report wraps to a nil
// error, so builders can be called unconditionally.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// As extracts the Report carried by err, if any.
func As(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// JSON renders the Report as indented JSON.
func (r *Report) JSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func newReport(phase, code, msg string, span *token.Span, data map[string]any) error {
	return Wrap(&Report{
		Schema:  Schema,
		Code:    code,
		Phase:   phase,
		Message: msg,
		Span:    span,
		Data:    data,
	})
}

// Scanner-phase codes (SCN###). The scanner does not attach these to
// its errors.
const (
	CodeIncludeCycle = "SCN001"
	CodeIncludeOpen  = "SCN002"
)

// Lexer-phase codes (LEX###). The lexer does not attach these to its
// errors.
const (
	CodeBadEscape         = "LEX001"
	CodeUnterminated      = "LEX002"
	CodeBadNumericLiteral = "LEX003"
	CodeBadCharLiteral    = "LEX004"
)

// Parser-phase codes (PAR###).
const (
	CodeUnexpectedToken = "PAR001"
	CodeUnexpectedEOF   = "PAR002"
)

// Semantic-analysis-phase codes (SEM###), matching spec.md §7's
// taxonomy one for one.
const (
	CodeLookup                = "SEM001" // identifier referenced but not bound
	CodeInference             = "SEM002" // unification failure
	CodeConstraintViolation   = "SEM003" // resolved type violates an Unknown's constraint set
	CodeOccursCheck           = "SEM004" // binding would make the unification table cyclic
	CodeArityMismatch         = "SEM005" // constructor pattern arity/shape mismatch
	CodeRecursivePolymorphism = "SEM006" // let rec member stayed non-ground after solving
	CodeGeneral               = "SEM007" // anything else
)

// NewParseError reports an unexpected token during parsing.
func NewParseError(span token.Span, message string) error {
	return newReport("parser", CodeUnexpectedToken, message, &span, nil)
}

// NewLookupError reports a reference to an unbound identifier.
func NewLookupError(span token.Span, id string) error {
	return newReport("sem", CodeLookup, fmt.Sprintf("%q is not bound", id), &span,
		map[string]any{"id": id})
}

// NewInferenceError reports a unification failure. lhs/rhs are the
// types as originally written at the unification site; lhsResolved/
// rhsResolved are their fully-resolved forms (may equal lhs/rhs).
func NewInferenceError(span token.Span, reason, lhs, rhs, lhsResolved, rhsResolved string) error {
	return newReport("sem", CodeInference, fmt.Sprintf("cannot unify %s with %s: %s", lhs, rhs, reason), &span,
		map[string]any{
			"reason":       reason,
			"lhs":          lhs,
			"rhs":          rhs,
			"lhs_resolved": lhsResolved,
			"rhs_resolved": rhsResolved,
		})
}

// NewConstraintViolationError reports a resolved type that does not
// satisfy the constraint set of the Unknown being bound.
func NewConstraintViolationError(span token.Span, unknown, resolved string) error {
	return newReport("sem", CodeConstraintViolation,
		fmt.Sprintf("%s cannot be resolved to %s: constraint violated", unknown, resolved), &span,
		map[string]any{"unknown": unknown, "resolved": resolved})
}

// NewOccursCheckError reports that binding unknown to resolved would
// make the unification table cyclic.
func NewOccursCheckError(span token.Span, unknown, resolved string) error {
	return newReport("sem", CodeOccursCheck,
		fmt.Sprintf("occurs check failed: %s occurs in %s", unknown, resolved), &span,
		map[string]any{"unknown": unknown, "resolved": resolved})
}

// NewArityMismatchError reports a constructor pattern with the wrong
// number of sub-patterns, or applied to a non-constructor.
func NewArityMismatchError(span token.Span, id string, want, got int) error {
	return newReport("sem", CodeArityMismatch,
		fmt.Sprintf("constructor %q expects %d argument(s), got %d", id, want, got), &span,
		map[string]any{"id": id, "want": want, "got": got})
}

// NewRecursivePolymorphismError reports a let rec member whose type
// remained non-ground after the group solved.
func NewRecursivePolymorphismError(span token.Span, id string) error {
	return newReport("sem", CodeRecursivePolymorphism,
		fmt.Sprintf("recursive generic definition not supported: %q", id), &span,
		map[string]any{"id": id})
}

// NewGeneralError reports any semantic error not covered by a more
// specific constructor above.
func NewGeneralError(span token.Span, message string) error {
	return newReport("sem", CodeGeneral, message, &span, nil)
}
