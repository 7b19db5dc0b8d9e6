package otcodec

import (
	"testing"

	"pgregory.net/rapid"
)

func TestEncodeManchesterVectors(t *testing.T) {
	cases := []struct {
		frame uint32
		want  uint64
	}{
		{0x00000000, 0x5555555555555555},
		{0xFFFFFFFF, 0xAAAAAAAAAAAAAAAA},
		{0x12345678, 0x56595A6566696A95},
	}
	for _, c := range cases {
		got := EncodeManchester(c.frame, false)
		if got != c.want {
			t.Errorf("EncodeManchester(%#08x, false) = %#016x, want %#016x", c.frame, got, c.want)
		}
	}
}

// P2: manchester encode/decode round trip, both invert selectors.
func TestManchesterRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		frame := uint32(rapid.Uint32().Draw(t, "frame"))
		invert := rapid.Bool().Draw(t, "invert")

		encoded := EncodeManchester(frame, invert)
		decoded, err := DecodeManchester(encoded, invert)
		if err != nil {
			t.Fatalf("DecodeManchester(%#016x, %v) returned error %v", encoded, invert, err)
		}
		if decoded != frame {
			t.Fatalf("round trip mismatch: got %#08x, want %#08x", decoded, frame)
		}
	})
}

// P4: replacing any 2-bit group with 00 or 11 must fail decode.
func TestManchesterGroupDetection(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		frame := uint32(rapid.Uint32().Draw(t, "frame"))
		invert := rapid.Bool().Draw(t, "invert")
		group := rapid.IntRange(0, 31).Draw(t, "group")
		bad := rapid.SampledFrom([]uint64{0b00, 0b11}).Draw(t, "bad")

		word := EncodeManchester(frame, invert)
		shift := uint(group * 2)
		mask := uint64(0b11) << shift
		word = (word &^ mask) | (bad << shift)

		if _, err := DecodeManchester(word, invert); err != ErrManchester {
			t.Fatalf("DecodeManchester(%#016x, %v) err = %v, want ErrManchester", word, invert, err)
		}
	})
}

func TestManchesterInvertRoundTrip(t *testing.T) {
	frame := uint32(0x12345678)
	inverted := EncodeManchester(frame, true)
	normal := EncodeManchester(frame, false)
	if inverted == normal {
		t.Fatal("inverted and non-inverted encodings must differ")
	}
	decoded, err := DecodeManchester(inverted, true)
	if err != nil {
		t.Fatalf("DecodeManchester(inverted) error: %v", err)
	}
	if decoded != frame {
		t.Fatalf("DecodeManchester(inverted) = %#08x, want %#08x", decoded, frame)
	}
}
