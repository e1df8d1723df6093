package wire

import (
	"fmt"
)

// Kind is a bitmask of JSON value shapes an option may take.
type Kind int

const (
	Bool Kind = 1 << iota
	Number
	String
	List
	Map
)

func (k Kind) String() string {
	names := []string{}

	for _, e := range []struct {
		kind Kind
		name string
	}{
		{Bool, "bool"},
		{Number, "number"},
		{String, "string"},
		{List, "list"},
		{Map, "map"},
	} {
		if k&e.kind != 0 {
			names = append(names, e.name)
		}
	}

	if len(names) == 0 {
		return "none"
	}

	result := names[0]

	for _, n := range names[1:] {
		result += " or " + n
	}

	return result
}

// ValidationError reports an option the caller supplied that the API would
// reject, before any request is made.
type ValidationError struct {
	Param   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("invalid value for option %q: %v (%s)", e.Param, e.Value, e.Message)
	}

	return fmt.Sprintf("invalid option %q: %s", e.Param, e.Message)
}

// Validate checks every key of options against the allowed shape table.
// Unknown keys and values of the wrong shape both fail, naming the offending
// key and value. Nil values pass (they are dropped before sending).
func Validate(options map[string]any, allowed map[string]Kind) error {
	for key, value := range options {
		kind, ok := allowed[key]

		if !ok {
			return &ValidationError{Param: key, Message: "unknown option"}
		}

		if value == nil {
			continue
		}

		if !matches(value, kind) {
			return &ValidationError{Param: key, Value: value, Message: "expected " + kind.String()}
		}
	}

	return nil
}

func matches(value any, kind Kind) bool {
	switch value.(type) {
	case bool:
		return kind&Bool != 0

	case int, int32, int64, float32, float64:
		return kind&Number != 0

	case string:
		return kind&String != 0

	case []any, []string:
		return kind&List != 0

	case map[string]any:
		return kind&Map != 0
	}

	return false
}
