package tokenhash

import "testing"

func TestHashIsStableAndOpaque(t *testing.T) {
	a := Hash("session-id")
	b := Hash("session-id")
	if a != b {
		t.Fatalf("expected stable hash")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == Hash("session-id-2") {
		t.Fatalf("expected different inputs to differ")
	}
}
