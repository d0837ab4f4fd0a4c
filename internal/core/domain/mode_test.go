package domain

import "testing"

func TestAuthMode_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to AuthMode
		ok       bool
	}{
		{ModeLogin, ModeRegister, true},
		{ModeLogin, ModeForgot, true},
		{ModeRegister, ModeLogin, true},
		{ModeRegister, ModeForgot, false},
		{ModeForgot, ModeLogin, true},
		{ModeForgot, ModeRegister, false},
		{ModeLogin, ModeLogin, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestAuthMode_Fields(t *testing.T) {
	if ModeLogin.HasField(FieldDisplayName) {
		t.Error("login must not show display name")
	}
	if ModeLogin.HasField(FieldConfirmPassword) {
		t.Error("login must not show confirm password")
	}
	if !ModeRegister.HasField(FieldConfirmPassword) {
		t.Error("register must show confirm password")
	}
	if ModeForgot.HasField(FieldPassword) {
		t.Error("forgot must not show password")
	}
	if !ModeForgot.HasField(FieldIdentifier) {
		t.Error("forgot must show identifier")
	}
}

func TestAuthMode_Valid(t *testing.T) {
	for _, m := range []AuthMode{ModeLogin, ModeRegister, ModeForgot} {
		if !m.Valid() {
			t.Errorf("%s should be valid", m)
		}
	}
	if AuthMode("admin").Valid() {
		t.Error("unknown mode should be invalid")
	}
}
