package otcodec

import "testing"

func TestF88(t *testing.T) {
	cases := []struct {
		in   uint16
		want float64
	}{
		{0x0000, 0.0},
		{0x0100, 1.0},
		{0x3200, 50.0},
		{0xFF00, -1.0},
	}
	for _, c := range cases {
		if got := F88(c.in); got != c.want {
			t.Errorf("F88(%#04x) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestEncodeF88(t *testing.T) {
	if got := EncodeF88(50.0); got != 0x3200 {
		t.Errorf("EncodeF88(50.0) = %#04x, want 0x3200", got)
	}
}

func TestS8S16(t *testing.T) {
	if S8(0xff) != -1 {
		t.Errorf("S8(0xff) = %d, want -1", S8(0xff))
	}
	if S16(0xffff) != -1 {
		t.Errorf("S16(0xffff) = %d, want -1", S16(0xffff))
	}
}
