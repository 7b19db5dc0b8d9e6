package fakebus

import "github.com/adq/picotherm/internal/otbus"

// FlipBit returns a Responder that calls inner then flips the given
// bit of its reply, for exercising Manchester/parity fault paths in
// engine tests without hand-computing corrupted line words.
func FlipBit(inner Responder, bit int) Responder {
	return func(tx uint64) (uint64, error) {
		word, err := inner(tx)
		if err != nil {
			return 0, err
		}
		return word ^ (1 << uint(bit)), nil
	}
}

// Timeout is a Responder that always times out, simulating a boiler
// that never replies.
func Timeout(tx uint64) (uint64, error) {
	return 0, otbus.ErrTimeout
}

// Const returns a Responder that always replies with word, ignoring
// the transmitted frame. Useful for unconditionally returning a
// specific (msg_type, data_id, value) triple in engine tests.
func Const(word uint64) Responder {
	return func(uint64) (uint64, error) { return word, nil }
}
