package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":             "9090",
		"BAD_INT":          "nine",
		"REDIS_ENABLED":    "true",
		"CACHE_TTL":        "30",
		"ACCEPTED_ORIGINS": "https://a.example, ,https://b.example",
		"EMPTY":            "",
	}

	if got := GetString(c, "PORT", "8080"); got != "9090" {
		t.Errorf("GetString = %q", got)
	}
	if got := GetString(c, "EMPTY", "fallback"); got != "fallback" {
		t.Errorf("GetString on empty = %q", got)
	}
	if got := GetInt(c, "BAD_INT", 7); got != 7 {
		t.Errorf("GetInt on invalid = %d", got)
	}
	if got := GetInt(nil, "PORT", 7); got != 7 {
		t.Errorf("GetInt on nil map = %d", got)
	}
	if !GetBool(c, "REDIS_ENABLED", false) {
		t.Error("GetBool = false")
	}
	if got := GetSeconds(c, "CACHE_TTL", time.Minute); got != 30*time.Second {
		t.Errorf("GetSeconds = %v", got)
	}
	if got := GetSeconds(c, "MISSING", time.Minute); got != time.Minute {
		t.Errorf("GetSeconds default = %v", got)
	}
	want := []string{"https://a.example", "https://b.example"}
	if got := GetStrings(c, "ACCEPTED_ORIGINS"); !reflect.DeepEqual(got, want) {
		t.Errorf("GetStrings = %v, want %v", got, want)
	}
}

func TestLoadFileEnvironmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "PORT: 7000\nCACHE_BACKEND: redis\nACCEPTED_ORIGINS:\n  - https://a.example\n  - https://b.example\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	c := map[string]string{"PORT": "9090"}
	if err := LoadFile(c, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c["PORT"] != "9090" {
		t.Errorf("PORT overridden by file: %q", c["PORT"])
	}
	if c["CACHE_BACKEND"] != "redis" {
		t.Errorf("CACHE_BACKEND = %q", c["CACHE_BACKEND"])
	}
	if c["ACCEPTED_ORIGINS"] != "https://a.example,https://b.example" {
		t.Errorf("ACCEPTED_ORIGINS = %q", c["ACCEPTED_ORIGINS"])
	}
}

func TestLoadFileRejectsNestedMaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("redis:\n  addr: localhost\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := LoadFile(map[string]string{}, path); err == nil {
		t.Error("expected error for nested map")
	}
}
