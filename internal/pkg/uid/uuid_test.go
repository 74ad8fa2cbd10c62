package uid

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUID_Generate(t *testing.T) {
	g := NewUUID()

	a, b := g.Generate(), g.Generate()

	if a == b {
		t.Fatal("ids must be unique")
	}
	id, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id.Version() != 7 {
		t.Fatalf("version = %d, want 7", id.Version())
	}
	if a > b {
		t.Fatalf("v7 ids must sort by creation: %s > %s", a, b)
	}
}

func TestIsUUID(t *testing.T) {
	tests := map[string]bool{
		"0195f3c4-8a7e-7c1b-9d2a-3e4f5a6b7c8d": true,
		"not-a-uuid":                           false,
		"":                                     false,
	}

	for in, want := range tests {
		if got := IsUUID(in); got != want {
			t.Errorf("IsUUID(%q) = %v, want %v", in, got, want)
		}
	}
}
