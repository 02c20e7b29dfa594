// Package launchargs turns the argument templates of a launch manifest into
// the command line that starts the game.
package launchargs

import (
	"io"
	"sort"
	"strings"

	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/valyala/fasttemplate"
	"golang.org/x/exp/maps"
)

// Variables are the values for ${name} placeholders
type Variables map[string]string

// Substitute replaces every ${name} in s. Unknown names are replaced with an empty string
// and reported in unknown
func (v Variables) Substitute(s string) (result string, unknown []string) {
	if !strings.Contains(s, "${") {
		return s, nil
	}

	var b strings.Builder
	_, err := fasttemplate.ExecuteFunc(s, "${", "}", &b, func(w io.Writer, tag string) (int, error) {
		value, ok := v[tag]
		if !ok {
			unknown = append(unknown, tag)
			return 0, nil
		}
		return w.Write([]byte(value))
	})
	// unclosed placeholder, keep the argument as it is
	if err != nil {
		return s, nil
	}
	return b.String(), unknown
}

// Build instantiates template for env. Arguments whose rules do not allow env are left out,
// so are arguments that are empty after substitution
func Build(template []minecraft.Argument, vars Variables, env *minecraft.Environment) []string {
	args, _ := build(template, vars, env)
	return args
}

func build(template []minecraft.Argument, vars Variables, env *minecraft.Environment) ([]string, []string) {
	args := make([]string, 0, len(template))
	var unknown []string
	for _, arg := range template {
		if !arg.Applies(env) {
			continue
		}
		for _, value := range arg.Value {
			replaced, missing := vars.Substitute(value)
			unknown = append(unknown, missing...)
			if replaced == "" {
				continue
			}
			args = append(args, replaced)
		}
	}
	return args, unknown
}

// Relative replaces the given absolute paths in args with ${name} placeholders.
// Longer paths are replaced first
func Relative(args []string, roots map[string]string) []string {
	names := maps.Keys(roots)
	sort.Slice(names, func(i, j int) bool {
		a, b := roots[names[i]], roots[names[j]]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return names[i] < names[j]
	})

	pairs := make([]string, 0, len(names)*2)
	for _, name := range names {
		if roots[name] == "" {
			continue
		}
		pairs = append(pairs, roots[name], "${"+name+"}")
	}
	replacer := strings.NewReplacer(pairs...)

	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = replacer.Replace(arg)
	}
	return out
}
