// Package filter evaluates user-supplied expressions against raw journal
// events, so the CLI can surface only the events a commander cares about.
package filter

import (
	"encoding/json"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/edrh-tools/edjournal/internal/journal"
	ejerrors "github.com/edrh-tools/edjournal/pkg/errors"
)

// Env is the environment a filter expression is evaluated against.
type Env struct {
	// Event is the kind discriminator, e.g. "FSDJump".
	Event string
	// Line is the raw journal line.
	Line string
	// Fields is the decoded payload of the line.
	Fields map[string]any
}

// Filter is one compiled filter expression.
type Filter struct {
	Name    string
	source  string
	program *vm.Program
}

// Compile builds a filter from an expression source. The expression must
// evaluate to a boolean.
func Compile(name, source string) (*Filter, error) {
	program, err := expr.Compile(source, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, ejerrors.NewFilterError(name, err)
	}
	return &Filter{Name: name, source: source, program: program}, nil
}

// Match reports whether the record satisfies the filter. Evaluation errors
// count as no match.
func (f *Filter) Match(rec journal.Record) bool {
	env := Env{
		Event: rec.Event,
		Line:  string(rec.Raw),
	}
	if len(rec.Raw) > 0 {
		var fields map[string]any
		if err := json.Unmarshal(rec.Raw, &fields); err == nil {
			env.Fields = fields
		}
	}
	if env.Fields == nil {
		env.Fields = map[string]any{}
	}

	out, err := expr.Run(f.program, env)
	if err != nil {
		return false
	}
	matched, ok := out.(bool)
	return ok && matched
}

// Set is an ordered collection of filters.
type Set []*Filter

// Match returns the name of the first filter the record satisfies.
func (s Set) Match(rec journal.Record) (string, bool) {
	for _, f := range s {
		if f.Match(rec) {
			return f.Name, true
		}
	}
	return "", false
}
