package domain

import "testing"

func TestPackReturnRoundTrip(t *testing.T) {
	rc := PackReturn(InProgress, 0xABCD)
	if rc.Code() != InProgress {
		t.Fatalf("Code() = %v, want InProgress", rc.Code())
	}
	if rc.Payload() != 0xABCD {
		t.Fatalf("Payload() = %x, want abcd", rc.Payload())
	}
}

func TestWithCodePreservesPayload(t *testing.T) {
	rc := PackReturn(Fail, 7)
	converted := rc.WithCode(InProgress)
	if converted.Code() != InProgress {
		t.Fatalf("Code() = %v, want InProgress", converted.Code())
	}
	if converted.Payload() != 7 {
		t.Fatalf("Payload() = %d, want 7", converted.Payload())
	}
}

func TestSaturatingAddUint16(t *testing.T) {
	cases := []struct {
		a, b uint32
		want uint16
	}{
		{0, 0, 0},
		{100, 50, 150},
		{0xFFF0, 0x20, 0xFFFF},
		{0xFFFF, 1, 0xFFFF},
	}
	for _, c := range cases {
		if got := SaturatingAddUint16(c.a, c.b); got != c.want {
			t.Errorf("SaturatingAddUint16(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestSaturatingSubUint16(t *testing.T) {
	cases := []struct {
		a    uint16
		b    uint32
		want uint16
	}{
		{10, 3, 7},
		{10, 10, 0},
		{10, 20, 0},
		{0, 1, 0},
	}
	for _, c := range cases {
		if got := SaturatingSubUint16(c.a, c.b); got != c.want {
			t.Errorf("SaturatingSubUint16(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
