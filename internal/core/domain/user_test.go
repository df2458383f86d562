package domain

import (
	"strings"
	"testing"
)

func TestTombstone(t *testing.T) {
	got := Tombstone("user3")
	if got == "user3" {
		t.Fatalf("tombstoned key equals the original")
	}
	if !strings.HasPrefix(got, "user3-") {
		t.Fatalf("expected original as prefix, got %q", got)
	}
	if len(got) != len("user3")+1+8 {
		t.Fatalf("unexpected tombstone length: %q", got)
	}

	original, ok := TombstoneOriginal(got)
	if !ok || original != "user3" {
		t.Fatalf("round trip failed: %q, %v", original, ok)
	}
}

func TestTombstoneOriginal_PlainKey(t *testing.T) {
	if _, ok := TombstoneOriginal("user3"); ok {
		t.Fatalf("plain key misread as tombstoned")
	}
	if _, ok := TombstoneOriginal("user-with-dash"); ok {
		t.Fatalf("non-hex suffix misread as tombstone")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleManager, RoleEmployee} {
		if !ValidRole(role) {
			t.Fatalf("%s rejected", role)
		}
	}
	if ValidRole("Intern") || ValidRole("") {
		t.Fatalf("unknown role accepted")
	}
}
