package id

import "testing"

func TestRandomGenerator_NewID(t *testing.T) {
	gen := NewRandomGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		got, err := gen.NewID()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 32 {
			t.Fatalf("expected 32-char id, got %q (len %d)", got, len(got))
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate id generated: %q", got)
		}
		seen[got] = struct{}{}
	}
}
