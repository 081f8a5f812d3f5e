package models

import "testing"

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleProfessor, RoleStudent, RoleTutor, RoleAssistant} {
		if !role.Valid() {
			t.Errorf("expected %q to be valid", role)
		}
	}

	for _, role := range []Role{"", "admin", "SUPERUSER", "PROFESSOR "} {
		if role.Valid() {
			t.Errorf("expected %q to be invalid", role)
		}
	}
}

func TestRoleAuthority(t *testing.T) {
	if got := RoleStudent.Authority(); got != "ROLE_STUDENT" {
		t.Fatalf("unexpected authority: %q", got)
	}
}

func TestUserAuthorities(t *testing.T) {
	u := &User{Role: RoleTutor}

	got := u.Authorities()
	if len(got) != 1 || got[0] != "ROLE_TUTOR" {
		t.Fatalf("unexpected authorities: %v", got)
	}
}

func TestStringListContains(t *testing.T) {
	list := StringList{"a", "b"}

	if !list.Contains("b") {
		t.Error("expected list to contain b")
	}
	if list.Contains("c") {
		t.Error("did not expect list to contain c")
	}
}

func TestStringListWithout(t *testing.T) {
	list := StringList{"a", "b", "a"}

	got := list.Without("a")
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("unexpected result: %v", got)
	}

	if got := list.Without("missing"); len(got) != 3 {
		t.Fatalf("unexpected result: %v", got)
	}
}
