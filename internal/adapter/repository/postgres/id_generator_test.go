package postgres

import (
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestULIDGeneratorProducesSortableIDs(t *testing.T) {
	gen := NewULIDGenerator()

	first := gen.Generate()
	second := gen.Generate()

	if _, err := ulid.Parse(first); err != nil {
		t.Fatalf("invalid ULID %q: %v", first, err)
	}
	if first == second {
		t.Fatalf("expected distinct IDs")
	}
	if len(first) != 26 {
		t.Fatalf("expected 26 characters, got %d", len(first))
	}
}
