package diag

import "fmt"

// Code represents a throws diagnostic code (THR-series).
type Code int

const (
	codeInvalid Code = iota

	THR001UnsupportedTarget
	THR002UnexpectedArguments
	THR003MalformedArguments
	THR004MultipleResults
	THR005NoDeclaredResult
	THR006NamedContainerResult
	THR007UnknownDirective
	THR008ThrowValueInOption
	THR009MisplacedMarker
	THR010MarkerOutsideScope
	THR011ZeroThrowInResult
	THR012NonLiteralArguments
)

// Severity tells whether a diagnostic stops the generation.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("severity-unknown(%d)", s)
	}
}

// String returns the canonical code and short name of the diagnostic.
// Example: "THR001: UnsupportedTarget"
func (c Code) String() string {
	switch c {
	case THR001UnsupportedTarget:
		return "THR001: UnsupportedTarget"
	case THR002UnexpectedArguments:
		return "THR002: UnexpectedArguments"
	case THR003MalformedArguments:
		return "THR003: MalformedArguments"
	case THR004MultipleResults:
		return "THR004: MultipleResults"
	case THR005NoDeclaredResult:
		return "THR005: NoDeclaredResult"
	case THR006NamedContainerResult:
		return "THR006: NamedContainerResult"
	case THR007UnknownDirective:
		return "THR007: UnknownDirective"
	case THR008ThrowValueInOption:
		return "THR008: ThrowValueInOption"
	case THR009MisplacedMarker:
		return "THR009: MisplacedMarker"
	case THR010MarkerOutsideScope:
		return "THR010: MarkerOutsideScope"
	case THR011ZeroThrowInResult:
		return "THR011: ZeroThrowInResult"
	case THR012NonLiteralArguments:
		return "THR012: NonLiteralArguments"
	default:
		return fmt.Sprintf("code-unknown(%d)", c)
	}
}

// Description returns the human-readable explanation of the diagnostic.
func (c Code) Description() string {
	switch c {
	case THR001UnsupportedTarget:
		return "attribute can only be applied to functions, methods, closures or async blocks"
	case THR002UnexpectedArguments:
		return "the propagation form does not take arguments"
	case THR003MalformedArguments:
		return "malformed throws arguments"
	case THR004MultipleResults:
		return "fallible functions may declare at most one success result"
	case THR005NoDeclaredResult:
		return "the propagation form requires a declared container result"
	case THR006NamedContainerResult:
		return "results of single-type containers cannot be named"
	case THR007UnknownDirective:
		return "unknown throws directive"
	case THR008ThrowValueInOption:
		return "presence containers cannot be thrown a value, use Throw() for absence"
	case THR009MisplacedMarker:
		return "propagation markers must be statements, assignment right sides or single return values"
	case THR010MarkerOutsideScope:
		return "propagation marker is outside of a rewritten function and will panic at runtime"
	case THR011ZeroThrowInResult:
		return "Throw() without arguments returns the zero value, a nil error is not a failure"
	case THR012NonLiteralArguments:
		return "arguments of ExprAs must be a string literal"
	default:
		return fmt.Sprintf("unknown-code(%d)", c)
	}
}

// Severity of the diagnostic.
func (c Code) Severity() Severity {
	switch c {
	case THR010MarkerOutsideScope, THR011ZeroThrowInResult:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// Canonical constructors for readability and stable call sites.

func UnsupportedTarget() Code    { return THR001UnsupportedTarget }
func UnexpectedArguments() Code  { return THR002UnexpectedArguments }
func MalformedArguments() Code   { return THR003MalformedArguments }
func MultipleResults() Code      { return THR004MultipleResults }
func NoDeclaredResult() Code     { return THR005NoDeclaredResult }
func NamedContainerResult() Code { return THR006NamedContainerResult }
func UnknownDirective() Code     { return THR007UnknownDirective }
func ThrowValueInOption() Code   { return THR008ThrowValueInOption }
func MisplacedMarker() Code      { return THR009MisplacedMarker }
func MarkerOutsideScope() Code   { return THR010MarkerOutsideScope }
func ZeroThrowInResult() Code    { return THR011ZeroThrowInResult }
func NonLiteralArguments() Code  { return THR012NonLiteralArguments }
