package main

import (
	"context"
	"errors"
	"testing"
)

func TestParseAssignments(t *testing.T) {
	data, err := parseAssignments([]string{"status=completed", "progress=75", "assignee=null", "name=a=b"})
	if err != nil {
		t.Fatal(err)
	}
	if data["status"] != "completed" {
		t.Errorf("status = %#v", data["status"])
	}
	if data["progress"] != float64(75) {
		t.Errorf("progress = %#v", data["progress"])
	}
	if v, ok := data["assignee"]; !ok || v != nil {
		t.Errorf("assignee = %#v", v)
	}
	if data["name"] != "a=b" {
		t.Errorf("name = %#v", data["name"])
	}

	if _, err := parseAssignments([]string{"status"}); err == nil {
		t.Error("missing '=' accepted")
	}
}

func TestDispatchRejectsUnknownCommand(t *testing.T) {
	var a app
	if err := a.dispatch(context.Background(), "nope", nil); !errors.Is(err, errUsage) {
		t.Errorf("err = %v, want usage", err)
	}
	if err := a.dispatch(context.Background(), "tasks", nil); !errors.Is(err, errUsage) {
		t.Errorf("err = %v, want usage", err)
	}
}
