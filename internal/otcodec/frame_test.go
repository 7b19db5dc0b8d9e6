package otcodec

import (
	"testing"

	"pgregory.net/rapid"
)

func TestEncodeFrameVectors(t *testing.T) {
	cases := []struct {
		msgType MsgType
		dataID  uint8
		value   uint16
		want    uint32
	}{
		{ReadData, 0, 0, 0x00000000},
		{UnknownDataID, 0xff, 0xffff, 0xf0ffffff},
		{UnknownDataID, 0xbb, 0x4278, 0xf0bb4278},
	}
	for _, c := range cases {
		got := EncodeFrame(c.msgType, c.dataID, c.value)
		if got != c.want {
			t.Errorf("EncodeFrame(%v, %#x, %#x) = %#08x, want %#08x", c.msgType, c.dataID, c.value, got, c.want)
		}
	}
}

func TestDecodeFrameRejectsOddParity(t *testing.T) {
	frame := EncodeFrame(ReadAck, 0, 0)
	for bit := 0; bit < 32; bit++ {
		flipped := frame ^ (1 << uint(bit))
		if _, err := DecodeFrame(flipped); err != ErrParity {
			t.Errorf("bit %d: DecodeFrame(%#08x) err = %v, want ErrParity", bit, flipped, err)
		}
	}
}

// P1: encode/decode frame round trip for all msg_type/data_id/value triples.
func TestFrameRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		msgType := MsgType(rapid.IntRange(0, 7).Draw(t, "msgType"))
		dataID := uint8(rapid.IntRange(0, 255).Draw(t, "dataID"))
		value := uint16(rapid.IntRange(0, 65535).Draw(t, "value"))

		encoded := EncodeFrame(msgType, dataID, value)
		decoded, err := DecodeFrame(encoded)
		if err != nil {
			t.Fatalf("DecodeFrame(%#08x) returned error %v", encoded, err)
		}
		if decoded.MsgType != msgType || decoded.DataID != dataID || decoded.Value != value {
			t.Fatalf("round trip mismatch: got %+v, want {%v %#x %#x}", decoded, msgType, dataID, value)
		}
	})
}

// P3: flipping any single bit of a valid frame must fail parity.
func TestFrameParityDetection(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		msgType := MsgType(rapid.IntRange(0, 7).Draw(t, "msgType"))
		dataID := uint8(rapid.IntRange(0, 255).Draw(t, "dataID"))
		value := uint16(rapid.IntRange(0, 65535).Draw(t, "value"))
		bit := rapid.IntRange(0, 31).Draw(t, "bit")

		encoded := EncodeFrame(msgType, dataID, value)
		flipped := encoded ^ (1 << uint(bit))
		if _, err := DecodeFrame(flipped); err != ErrParity {
			t.Fatalf("DecodeFrame(%#08x) err = %v, want ErrParity", flipped, err)
		}
	})
}
