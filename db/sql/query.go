package sql

import (
	"fmt"
	"strings"
)

type (
	// Query is a command sent to the database with its arguments.
	Query interface {
		// Cmd is the text of the query.
		Cmd() string
		// Args are the values substituted into the query placeholders.
		Args() []any
	}

	// QueryFunction reads columns from a stored function.
	QueryFunction struct {
		name string
		cols []string
		args []any
	}

	// ExecFunction calls a stored function that changes exactly one row.
	ExecFunction struct {
		name string
		args []any
	}

	// RawQuery is a literal statement without arguments, such as a table definition.
	RawQuery string
)

// NewQueryFunction creates a Query that selects the columns from the named function.
func NewQueryFunction(name string, cols []string, args ...any) QueryFunction {
	return QueryFunction{
		name: name,
		cols: cols,
		args: args,
	}
}

// NewExecFunction creates a Query that calls the named function.
func NewExecFunction(name string, args ...any) ExecFunction {
	return ExecFunction{
		name: name,
		args: args,
	}
}

// placeholders creates numbered argument placeholders: $1, $2, ...
func placeholders(n int) string {
	p := make([]string, n)
	for i := range p {
		p[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(p, ", ")
}

// Cmd selects the columns from the function.
func (q QueryFunction) Cmd() string {
	return fmt.Sprintf("SELECT %s FROM %s(%s)", strings.Join(q.cols, ", "), q.name, placeholders(len(q.args)))
}

// Args are the function arguments.
func (q QueryFunction) Args() []any {
	return q.args
}

// Cmd calls the function.
func (e ExecFunction) Cmd() string {
	return fmt.Sprintf("SELECT %s(%s)", e.name, placeholders(len(e.args)))
}

// Args are the function arguments.
func (e ExecFunction) Args() []any {
	return e.args
}

// Cmd is the raw statement.
func (r RawQuery) Cmd() string {
	return string(r)
}

// Args is always empty.
func (RawQuery) Args() []any {
	return nil
}
