package database

import (
	"context"

	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
	"github.com/google/uuid"
)

// table holds the calls every repo makes against one backend table.
// Each helper is exactly one round trip.
type table[T any] struct {
	client backend.Client
	name   string
}

func (t table[T]) list(ctx context.Context, q backend.Query) ([]T, error) {
	rows := []T{}
	if err := t.client.Select(ctx, q, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

func (t table[T]) get(ctx context.Context, id uuid.UUID, embeds ...string) (*T, error) {
	var row T
	q := backend.From(t.name).Eq("id", id).Embed(embeds...).ExpectSingle()
	if err := t.client.Select(ctx, q, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (t table[T]) insert(ctx context.Context, row *T) error {
	return t.client.Insert(ctx, t.name, row)
}

func (t table[T]) update(ctx context.Context, id uuid.UUID, values map[string]any) (*T, error) {
	return t.updateWhere(ctx, backend.From(t.name).Eq("id", id), values)
}

// updateWhere fails with backend.ErrNoRows when q matches nothing.
func (t table[T]) updateWhere(ctx context.Context, q backend.Query, values map[string]any) (*T, error) {
	var row T
	if err := t.client.Update(ctx, q, values, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (t table[T]) delete(ctx context.Context, id uuid.UUID) error {
	return t.deleteWhere(ctx, backend.From(t.name).Eq("id", id))
}

func (t table[T]) deleteWhere(ctx context.Context, q backend.Query) error {
	var model T
	return t.client.Delete(ctx, q, &model)
}

// withoutKeys copies values, dropping columns callers may not write.
func withoutKeys(values map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
