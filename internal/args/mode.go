package args

import (
	"encoding"
	"fmt"
)

// Mode describes what kind of container a fallible function returns.
type Mode int

const (
	ModeInvalid Mode = iota

	// ModeErrorType is an error tuple with an explicitly given error type.
	ModeErrorType

	// ModeErrorOmitted is an error tuple with the bare Error name as the error type.
	ModeErrorOmitted

	// ModeOption is a comma-ok tuple.
	ModeOption

	// ModeAliasResult is a single-type generic container with failures, like throws.Fallible.
	ModeAliasResult

	// ModeAliasOption is a single-type generic container with absence only, like throws.Maybe.
	ModeAliasOption
)

var modeValueMap = map[Mode]string{
	ModeErrorType:    "error-type",
	ModeErrorOmitted: "error-omitted",
	ModeOption:       "option",
	ModeAliasResult:  "alias-result",
	ModeAliasOption:  "alias-option",
}

func (m Mode) String() string {
	v, ok := modeValueMap[m]
	if !ok {
		return fmt.Sprintf("invalid(%d)", m)
	}

	return v
}

var (
	_ encoding.TextMarshaler   = ModeInvalid
	_ encoding.TextUnmarshaler = (*Mode)(nil)
)

// MarshalText for reports and configs.
func (m Mode) MarshalText() ([]byte, error) {
	v, ok := modeValueMap[m]
	if !ok {
		return nil, fmt.Errorf("cannot marshal invalid Mode(%d)", m)
	}

	return []byte(v), nil
}

// UnmarshalText for setting values with configs, CLI, etc.
func (m *Mode) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for k, v := range modeValueMap {
		if v == text {
			*m = k
			return nil
		}
	}

	return fmt.Errorf("unknown mode %q", text)
}

// Family is the shape of the final container the rewriter constructs values of.
type Family int

const (
	FamilyInvalid Family = iota

	// FamilyResult is (T, E) or just E.
	FamilyResult

	// FamilyOption is (T, bool) or just bool.
	FamilyOption

	// FamilyContainer is a single type C with FromOk/FromError methods.
	FamilyContainer
)

var familyValueMap = map[Family]string{
	FamilyResult:    "result",
	FamilyOption:    "option",
	FamilyContainer: "container",
}

func (f Family) String() string {
	v, ok := familyValueMap[f]
	if !ok {
		return fmt.Sprintf("invalid(%d)", f)
	}

	return v
}
