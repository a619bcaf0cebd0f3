package digits

import "testing"

func TestPiSequenceLength(t *testing.T) {
	seq := PiSequence()
	if seq.Len() != 200 {
		t.Fatalf("expected 200 digits, got %d", seq.Len())
	}
	for i := 0; i < seq.Len(); i++ {
		if d := seq.At(i); d < 0 || d > 9 {
			t.Fatalf("digit %d out of range: %d", i, d)
		}
	}
}

func TestPiSequencePrefix(t *testing.T) {
	seq := PiSequence()
	if got := seq.Prefix(10); got != "1415926535" {
		t.Fatalf("unexpected prefix: %q", got)
	}
	if seq.At(5) != 2 {
		t.Fatalf("expected digit 2 at index 5, got %d", seq.At(5))
	}
	if got := seq.Prefix(0); got != "" {
		t.Fatalf("expected empty prefix, got %q", got)
	}
	if got := seq.Prefix(500); len(got) != 200 {
		t.Fatalf("expected clamped prefix, got %d digits", len(got))
	}
}
