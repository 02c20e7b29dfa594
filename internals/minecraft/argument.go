package minecraft

import (
	"encoding/json"
	"strings"
)

// Argument is one entry of the game or jvm arguments. It is either a plain string
// or a value guarded by rules
type Argument struct {
	// Value is the actual argument
	Value stringSlice `json:"value"`
	Rules Rules       `json:"rules,omitempty"`
}

// Literal returns an argument without rules
func Literal(values ...string) Argument {
	return Argument{Value: values}
}

// Applies reports if the argument should be used in env
func (a Argument) Applies(env *Environment) bool {
	return a.Rules.Allowed(env)
}

// UnmarshalJSON accepts plain strings in addition to objects
func (a *Argument) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Argument{Value: stringSlice{s}}
		return nil
	}

	// alias to prevent recursion
	type plain Argument
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Argument(p)
	return nil
}

// MarshalJSON writes arguments without rules as plain strings
func (a Argument) MarshalJSON() ([]byte, error) {
	if len(a.Rules) == 0 && len(a.Value) == 1 {
		return json.Marshal(a.Value[0])
	}
	type plain struct {
		Value []string `json:"value"`
		Rules Rules    `json:"rules,omitempty"`
	}
	return json.Marshal(plain{Value: a.Value, Rules: a.Rules})
}

// SplitLegacyArguments turns a pre 1.13 "minecraftArguments" string into arguments
func SplitLegacyArguments(args string) []Argument {
	var out []Argument
	for _, field := range strings.Fields(args) {
		out = append(out, Literal(field))
	}
	return out
}
