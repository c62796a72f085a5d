package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ProNexus-Startup/ProjectHub/backend/metrics"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

var identifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// GormClient talks to the Supabase Postgres database directly. Each call
// runs in its own transaction that adopts the caller's JWT claims and
// role, so the same row-level-security policies apply as through the
// REST gateway.
type GormClient struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewGormClient(db *gorm.DB) *GormClient {
	return &GormClient{
		db:     db,
		logger: log.With().Str("component", "backendClient").Logger(),
	}
}

// GetDB returns the underlying database connection for debugging purposes
func (c *GormClient) GetDB() *gorm.DB {
	return c.db
}

func (c *GormClient) Select(ctx context.Context, q Query, dest any) error {
	return c.asCaller(ctx, "select", q.Table, true, func(tx *gorm.DB) error {
		stmt := tx.Table(q.Table)
		if q.Columns != "" && q.Columns != "*" {
			stmt = stmt.Select(q.Columns)
		}
		for _, relation := range q.Embeds {
			stmt = stmt.Preload(relation)
		}
		stmt = applyFilters(stmt, q.Filters)
		for _, o := range q.Order {
			stmt = stmt.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Descending})
		}
		if q.Limit > 0 {
			stmt = stmt.Limit(q.Limit)
		}
		if q.Single {
			return stmt.Take(dest).Error
		}
		return stmt.Find(dest).Error
	})
}

func (c *GormClient) Insert(ctx context.Context, table string, row any) error {
	return c.asCaller(ctx, "insert", table, false, func(tx *gorm.DB) error {
		return tx.Table(table).
			Omit(clause.Associations).
			Clauses(clause.Returning{}).
			Create(row).Error
	})
}

func (c *GormClient) Update(ctx context.Context, q Query, values map[string]any, dest any) error {
	if len(q.Filters) == 0 {
		return &Error{Code: "21000", Message: "UPDATE requires a WHERE clause"}
	}
	return c.asCaller(ctx, "update", q.Table, false, func(tx *gorm.DB) error {
		res := applyFilters(tx.Table(q.Table).Model(dest), q.Filters).
			Clauses(clause.Returning{}).
			Updates(columnValues(values))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoRows
		}
		return nil
	})
}

func (c *GormClient) Delete(ctx context.Context, q Query, model any) error {
	if len(q.Filters) == 0 {
		return &Error{Code: "21000", Message: "DELETE requires a WHERE clause"}
	}
	return c.asCaller(ctx, "delete", q.Table, false, func(tx *gorm.DB) error {
		return applyFilters(tx.Table(q.Table), q.Filters).Delete(model).Error
	})
}

func (c *GormClient) RPC(ctx context.Context, fn string, args map[string]any, dest any) error {
	if !identifier.MatchString(fn) {
		return &Error{Code: "PGRST202", Message: fmt.Sprintf("Could not find the function %s", fn)}
	}

	names := make([]string, 0, len(args))
	for name := range args {
		if !identifier.MatchString(name) {
			return &Error{Code: "PGRST202", Message: fmt.Sprintf("Invalid argument name %q for %s", name, fn)}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]string, len(names))
	for i, name := range names {
		params[i] = fmt.Sprintf("%s => @%s", name, name)
	}
	sql := fmt.Sprintf("SELECT * FROM %s(%s)", fn, strings.Join(params, ", "))

	// stored procedures may write, so they always run on the primary
	return c.asCaller(ctx, "rpc", fn, false, func(tx *gorm.DB) error {
		if len(args) == 0 {
			return tx.Raw(sql).Scan(dest).Error
		}
		return tx.Raw(sql, columnValues(args)).Scan(dest).Error
	})
}

func (c *GormClient) asCaller(ctx context.Context, operation, table string, readOnly bool, fn func(tx *gorm.DB) error) error {
	start := time.Now()
	db := c.db.WithContext(ctx)
	if readOnly {
		// picks a replica when one is registered; a no-op otherwise
		db = db.Clauses(dbresolver.Read)
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := adoptCaller(ctx, tx); err != nil {
			return err
		}
		return fn(tx)
	})
	metrics.RecordBackendQueryDuration(operation, table, time.Since(start))

	if err != nil {
		translated := translateError(err)
		if !IsNoRows(translated) {
			c.logger.Debug().Err(err).Str("operation", operation).Str("table", table).Msg("backend call failed")
		}
		return translated
	}
	return nil
}

// adoptCaller sets the transaction-local settings Supabase policies read:
// request.jwt.claims for auth.uid() and the Postgres role.
func adoptCaller(ctx context.Context, tx *gorm.DB) error {
	role := "anon"
	payload := "{}"
	if claims, ok := ClaimsFromContext(ctx); ok {
		role = claims.Role()
		encoded, err := json.Marshal(claims)
		if err != nil {
			return fmt.Errorf("encode caller claims: %w", err)
		}
		payload = string(encoded)
	}
	if err := tx.Exec("SELECT set_config('request.jwt.claims', ?, true)", payload).Error; err != nil {
		return err
	}
	return tx.Exec("SELECT set_config('role', ?, true)", role).Error
}

func applyFilters(stmt *gorm.DB, filters []Filter) *gorm.DB {
	for _, f := range filters {
		stmt = stmt.Where(clause.Eq{Column: clause.Column{Name: f.Column}, Value: f.Value})
	}
	return stmt
}

// columnValues encodes composite values as JSON so they land in jsonb columns.
func columnValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
		if v == nil {
			continue
		}
		switch reflect.TypeOf(v).Kind() {
		case reflect.Map, reflect.Slice:
			if _, isBytes := v.([]byte); isBytes {
				continue
			}
			if _, isValuer := v.(interface{ GormDataType() string }); isValuer {
				continue
			}
			if encoded, err := json.Marshal(v); err == nil {
				out[k] = datatypes.JSON(encoded)
			}
		}
	}
	return out
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoRows
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &Error{
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
		}
	}
	return err
}
