// Package backend describes the contract with the hosted Supabase database
// that owns every entity. Authorization lives in the database's row-level
// security policies; callers only pass their identity along.
package backend

import (
	"context"
	"errors"
	"fmt"
)

// CodeNoRows is the code PostgREST reports when a single-row fetch matched nothing.
const CodeNoRows = "PGRST116"

// ErrNoRows is returned by single-row calls that found no matching row.
var ErrNoRows = &Error{Code: CodeNoRows, Message: "JSON object requested, multiple (or no) rows returned"}

// Error is a failure reported by the backend. Code carries the PostgREST
// code or the Postgres SQLSTATE.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%s): %s", e.Message, e.Code, e.Details)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Is matches on Code so that wrapped copies of ErrNoRows still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func IsNoRows(err error) bool {
	return errors.Is(err, ErrNoRows)
}

// CodeOf returns the backend code of err, or "" when err did not come from the backend.
func CodeOf(err error) string {
	var backendErr *Error
	if errors.As(err, &backendErr) {
		return backendErr.Code
	}
	return ""
}

// Filter is an equality predicate on a column.
type Filter struct {
	Column string
	Value  any
}

type Order struct {
	Column     string
	Descending bool
}

// Query is the shape of every read: table, filters, ordering and an
// optional single-row expectation.
type Query struct {
	Table   string
	Columns string   // defaults to "*"
	Embeds  []string // related collections to attach, by relation name
	Filters []Filter
	Order   []Order
	Limit   int
	Single  bool
}

func From(table string) Query {
	return Query{Table: table}
}

func (q Query) Eq(column string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Column: column, Value: value})
	return q
}

func (q Query) OrderBy(column string, descending bool) Query {
	q.Order = append(append([]Order(nil), q.Order...), Order{Column: column, Descending: descending})
	return q
}

func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

func (q Query) Embed(relations ...string) Query {
	q.Embeds = append(append([]string(nil), q.Embeds...), relations...)
	return q
}

func (q Query) ExpectSingle() Query {
	q.Single = true
	return q
}

// Client is the query interface of the Remote Data Backend. Every method
// is exactly one round trip.
type Client interface {
	// Select reads rows into dest (*[]T), or a single row into dest (*T)
	// when q.Single is set, failing with ErrNoRows if nothing matched.
	Select(ctx context.Context, q Query, dest any) error
	// Insert writes row (*T) and overwrites it with the returned projection.
	Insert(ctx context.Context, table string, row any) error
	// Update applies values to the single row matched by q and decodes the
	// returned row into dest (*T).
	Update(ctx context.Context, q Query, values map[string]any, dest any) error
	// Delete removes rows matched by q. model is a pointer to the table's row type.
	Delete(ctx context.Context, q Query, model any) error
	// RPC invokes a stored procedure and decodes its result set into dest.
	RPC(ctx context.Context, fn string, args map[string]any, dest any) error
}
