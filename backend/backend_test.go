package backend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestQueryBuilderDoesNotShareFilters(t *testing.T) {
	base := From("tasks").Eq("project_id", "p1")
	a := base.Eq("status", "completed")
	b := base.Eq("status", "on-hold")

	if len(base.Filters) != 1 {
		t.Fatalf("base filters mutated: %v", base.Filters)
	}
	if a.Filters[1].Value != "completed" || b.Filters[1].Value != "on-hold" {
		t.Errorf("derived queries share backing array: %v / %v", a.Filters, b.Filters)
	}

	q := From("activity_log").OrderBy("created_at", true).WithLimit(100).Embed("Profile").ExpectSingle()
	if q.Limit != 100 || !q.Single || len(q.Embeds) != 1 || !q.Order[0].Descending {
		t.Errorf("unexpected query %+v", q)
	}
}

func TestNoRowsMatching(t *testing.T) {
	wrapped := fmt.Errorf("get project: %w", &Error{Code: CodeNoRows, Message: "no rows"})
	if !IsNoRows(wrapped) {
		t.Error("IsNoRows should match any error carrying PGRST116")
	}
	if IsNoRows(&Error{Code: "42501"}) {
		t.Error("IsNoRows matched a permission error")
	}
	if CodeOf(wrapped) != CodeNoRows {
		t.Errorf("CodeOf = %q", CodeOf(wrapped))
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Error("CodeOf should be empty for non-backend errors")
	}
}

func TestTranslateError(t *testing.T) {
	if !IsNoRows(translateError(gorm.ErrRecordNotFound)) {
		t.Error("record not found should become ErrNoRows")
	}

	pgErr := &pgconn.PgError{Code: "42501", Message: "permission denied for table projects"}
	translated := translateError(fmt.Errorf("exec: %w", pgErr))
	if CodeOf(translated) != "42501" {
		t.Errorf("code = %q", CodeOf(translated))
	}

	other := errors.New("driver: bad connection")
	if translateError(other) != other {
		t.Error("unknown errors must pass through unchanged")
	}
}

func TestColumnValuesEncodesComposites(t *testing.T) {
	values := columnValues(map[string]any{
		"status":        "completed",
		"custom_fields": map[string]any{"severity": 3},
		"dependencies":  []string{"a", "b"},
		"raw":           []byte("x"),
		"nothing":       nil,
	})

	if values["status"] != "completed" {
		t.Errorf("scalar changed: %v", values["status"])
	}
	if got, ok := values["custom_fields"].(datatypes.JSON); !ok || string(got) != `{"severity":3}` {
		t.Errorf("custom_fields = %#v", values["custom_fields"])
	}
	if got, ok := values["dependencies"].(datatypes.JSON); !ok || string(got) != `["a","b"]` {
		t.Errorf("dependencies = %#v", values["dependencies"])
	}
	if _, ok := values["raw"].([]byte); !ok {
		t.Errorf("bytes should pass through, got %T", values["raw"])
	}
	if values["nothing"] != nil {
		t.Errorf("nil should stay nil")
	}
}

func TestClaimsContext(t *testing.T) {
	if _, ok := ClaimsFromContext(context.Background()); ok {
		t.Error("empty context should carry no claims")
	}
	ctx := WithClaims(context.Background(), Claims{"sub": "user-1"})
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.Subject() != "user-1" {
		t.Errorf("claims = %v, %v", claims, ok)
	}
	if claims.Role() != "authenticated" {
		t.Errorf("default role = %q", claims.Role())
	}
	if (Claims{"role": "service_role"}).Role() != "service_role" {
		t.Error("explicit role ignored")
	}
}
