// Package backendtest provides an in-memory backend.Client for tests.
package backendtest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
	"github.com/google/uuid"
)

// RPCFunc answers a stored-procedure call; the result is JSON-decoded into dest.
type RPCFunc func(ctx context.Context, args map[string]any) (any, error)

// Call records one round trip made against the fake.
type Call struct {
	Operation string
	Table     string
	Query     backend.Query
	Claims    backend.Claims
}

// Fake keeps rows as JSON objects per table. Rows are compared and
// ordered by their JSON field names, the same names the backend exposes.
type Fake struct {
	mu       sync.Mutex
	tables   map[string][]map[string]any
	rpcs     map[string]RPCFunc
	failures map[string]error
	hooks    map[string]func()
	calls    []Call
	Now      func() time.Time
}

func New() *Fake {
	return &Fake{
		tables:   map[string][]map[string]any{},
		rpcs:     map[string]RPCFunc{},
		failures: map[string]error{},
		hooks:    map[string]func(){},
		Now:      func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// Seed stores rows as-is, without filling ids or timestamps.
func (f *Fake) Seed(table string, rows ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range rows {
		m, err := toMap(row)
		if err != nil {
			panic(fmt.Sprintf("backendtest: seed %s: %v", table, err))
		}
		f.tables[table] = append(f.tables[table], m)
	}
}

// Rows returns a copy of a table's rows in insertion order.
func (f *Fake) Rows(table string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.tables[table]))
	for _, row := range f.tables[table] {
		out = append(out, cloneRow(row))
	}
	return out
}

// FailOn makes every subsequent operation ("select", "insert", "update",
// "delete", "rpc") on table return err. A nil err clears the failure.
func (f *Fake) FailOn(operation, table string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := operation + ":" + table
	if err == nil {
		delete(f.failures, key)
		return
	}
	f.failures[key] = err
}

// OnCall runs hook whenever operation on table starts, before any result is computed.
func (f *Fake) OnCall(operation, table string, hook func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks[operation+":"+table] = hook
}

func (f *Fake) HandleRPC(fn string, handler RPCFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rpcs[fn] = handler
}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *Fake) Select(ctx context.Context, q backend.Query, dest any) error {
	if err := f.begin(ctx, "select", q.Table, q); err != nil {
		return err
	}
	f.mu.Lock()
	rows := matching(f.tables[q.Table], q.Filters)
	f.mu.Unlock()

	sortRows(rows, q.Order)
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	if q.Single {
		if len(rows) != 1 {
			return backend.ErrNoRows
		}
		return decode(rows[0], dest)
	}
	return decode(rows, dest)
}

func (f *Fake) Insert(ctx context.Context, table string, row any) error {
	if err := f.begin(ctx, "insert", table, backend.From(table)); err != nil {
		return err
	}
	m, err := toMap(row)
	if err != nil {
		return err
	}

	f.mu.Lock()
	if id, _ := m["id"].(string); id == "" || id == uuid.Nil.String() {
		m["id"] = uuid.NewString()
	}
	now := f.Now().Format(time.RFC3339Nano)
	for _, column := range []string{"created_at", "updated_at", "created_date", "last_modified"} {
		if v, ok := m[column]; ok && isZeroTime(v) {
			m[column] = now
		}
	}
	f.tables[table] = append(f.tables[table], m)
	stored := cloneRow(m)
	f.mu.Unlock()

	return decode(stored, row)
}

func (f *Fake) Update(ctx context.Context, q backend.Query, values map[string]any, dest any) error {
	if err := f.begin(ctx, "update", q.Table, q); err != nil {
		return err
	}
	patch, err := toMap(values)
	if err != nil {
		return err
	}

	f.mu.Lock()
	var updated map[string]any
	now := f.Now().Format(time.RFC3339Nano)
	for _, row := range f.tables[q.Table] {
		if !matches(row, q.Filters) {
			continue
		}
		for k, v := range patch {
			row[k] = v
		}
		for _, column := range []string{"updated_at", "last_modified"} {
			if _, ok := row[column]; ok {
				if _, explicit := patch[column]; !explicit {
					row[column] = now
				}
			}
		}
		if updated == nil {
			updated = cloneRow(row)
		}
	}
	f.mu.Unlock()

	if updated == nil {
		return backend.ErrNoRows
	}
	if dest == nil {
		return nil
	}
	return decode(updated, dest)
}

func (f *Fake) Delete(ctx context.Context, q backend.Query, _ any) error {
	if err := f.begin(ctx, "delete", q.Table, q); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.tables[q.Table][:0]
	for _, row := range f.tables[q.Table] {
		if !matches(row, q.Filters) {
			kept = append(kept, row)
		}
	}
	f.tables[q.Table] = kept
	return nil
}

func (f *Fake) RPC(ctx context.Context, fn string, args map[string]any, dest any) error {
	if err := f.begin(ctx, "rpc", fn, backend.Query{Table: fn}); err != nil {
		return err
	}
	f.mu.Lock()
	handler, ok := f.rpcs[fn]
	f.mu.Unlock()
	if !ok {
		return &backend.Error{Code: "PGRST202", Message: "Could not find the function " + fn}
	}
	result, err := handler(ctx, args)
	if err != nil {
		return err
	}
	return decode(result, dest)
}

func (f *Fake) begin(ctx context.Context, operation, table string, q backend.Query) error {
	claims, _ := backend.ClaimsFromContext(ctx)
	f.mu.Lock()
	f.calls = append(f.calls, Call{Operation: operation, Table: table, Query: q, Claims: claims})
	hook := f.hooks[operation+":"+table]
	err := f.failures[operation+":"+table]
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}

func matching(rows []map[string]any, filters []backend.Filter) []map[string]any {
	out := []map[string]any{}
	for _, row := range rows {
		if matches(row, filters) {
			out = append(out, cloneRow(row))
		}
	}
	return out
}

func matches(row map[string]any, filters []backend.Filter) bool {
	for _, filter := range filters {
		if fmt.Sprint(row[filter.Column]) != fmt.Sprint(normalize(filter.Value)) {
			return false
		}
	}
	return true
}

func sortRows(rows []map[string]any, order []backend.Order) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range order {
			c := compare(rows[i][o.Column], rows[j][o.Column])
			if c == 0 {
				continue
			}
			if o.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	if at, err := time.Parse(time.RFC3339Nano, as); err == nil {
		if bt, err := time.Parse(time.RFC3339Nano, bs); err == nil {
			return at.Compare(bt)
		}
	}
	return strings.Compare(as, bs)
}

func isZeroTime(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	return err == nil && t.IsZero()
}

func normalize(v any) any {
	encoded, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return v
	}
	return out
}

func toMap(v any) (map[string]any, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(encoded, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func cloneRow(row map[string]any) map[string]any {
	out, err := toMap(row)
	if err != nil {
		panic(err)
	}
	return out
}

func decode(v any, dest any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, dest)
}
