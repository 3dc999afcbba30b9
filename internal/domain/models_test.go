package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestRoleUnmarshal(t *testing.T) {
	cases := map[string]Role{
		`1`:          RolePlayer,
		`2`:          RoleDesigner,
		`"2"`:        RoleDesigner,
		`"player"`:   RolePlayer,
		`"Designer"`: RoleDesigner,
		`null`:       RoleUnknown,
		`""`:         RoleUnknown,
	}
	for in, want := range cases {
		var r Role
		if err := json.Unmarshal([]byte(in), &r); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if r != want {
			t.Fatalf("%s: expected %v, got %v", in, want, r)
		}
	}

	var r Role
	if err := json.Unmarshal([]byte(`"admin"`), &r); err == nil {
		t.Fatalf("expected error for unknown role name")
	}
}

func TestRoleMarshalsAsInteger(t *testing.T) {
	out, err := json.Marshal(struct {
		Type Role `json:"type"`
	}{RoleDesigner})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"type":2}` {
		t.Fatalf("unexpected json %s", out)
	}
}

func TestAsErrorHidesInternalDetail(t *testing.T) {
	cause := errors.New("connection refused")
	de := AsError(fmt.Errorf("wrapped: %w", cause))
	if de.Kind != KindInternal || de.Message != MsgInternal {
		t.Fatalf("expected generic internal error, got %+v", de)
	}
	if !errors.Is(de, cause) {
		t.Fatalf("expected cause to be preserved")
	}

	wrapped := fmt.Errorf("ctx: %w", Conflict(MsgAlreadyAnswered))
	if !IsKind(wrapped, KindConflict) || AsError(wrapped).Message != MsgAlreadyAnswered {
		t.Fatalf("expected conflict to survive wrapping")
	}
}

func TestOptionLabel(t *testing.T) {
	if got := OptionLabel(1); got != "گزینه ۱" {
		t.Fatalf("unexpected label %q", got)
	}
}
