package otengine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adq/picotherm/internal/otbus"
	"github.com/adq/picotherm/internal/otbus/fakebus"
	"github.com/adq/picotherm/internal/otcodec"
)

// ackResponder builds a Responder that, regardless of the request,
// replies with (ack, dataID, value) Manchester-encoded with the
// engine's RX convention (invert=false).
func ackResponder(ack otcodec.MsgType, dataID uint8, value uint16) fakebus.Responder {
	frame := otcodec.EncodeFrame(ack, dataID, value)
	word := otcodec.EncodeManchester(frame, false)
	return fakebus.Const(word)
}

// scenario 3 (§8): status_exchange against (READ-ACK, 0, 0x00FF).
func TestExchangeACKOK(t *testing.T) {
	bus := fakebus.New(ackResponder(otcodec.ReadAck, 0, 0x00FF))
	resp, err := Exchange(context.Background(), bus, otcodec.ReadData, 0, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, otcodec.ReadAck, resp.MsgType)
	assert.EqualValues(t, 0, resp.DataID)
	assert.EqualValues(t, 0x00FF, resp.Value)
}

// P7: wrong data_id in the reply fails WRONG-ACK-ID.
func TestExchangeWrongAckID(t *testing.T) {
	bus := fakebus.New(ackResponder(otcodec.ReadAck, 5, 0x1234))
	_, err := Exchange(context.Background(), bus, otcodec.ReadData, 0, 0, nil)
	var engineErr *Error
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, OutcomeWrongAckID, engineErr.Outcome)
}

func TestExchangeDataInvalidNotRetried(t *testing.T) {
	calls := 0
	bus := fakebus.New(func(tx uint64) (uint64, error) {
		calls++
		frame := otcodec.EncodeFrame(otcodec.DataInvalid, 11, 0)
		return otcodec.EncodeManchester(frame, false), nil
	})
	_, err := ExchangeWithRetry(context.Background(), bus, otcodec.ReadData, 11, 0, 10*time.Millisecond, 5, nil)
	var engineErr *Error
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, OutcomeDataInvalid, engineErr.Outcome)
	assert.Equal(t, 1, calls, "DATA-INVALID must not be retried")
}

func TestExchangeUnknownDataIDNotRetried(t *testing.T) {
	calls := 0
	bus := fakebus.New(func(tx uint64) (uint64, error) {
		calls++
		frame := otcodec.EncodeFrame(otcodec.UnknownDataID, 200, 0)
		return otcodec.EncodeManchester(frame, false), nil
	})
	_, err := ExchangeWithRetry(context.Background(), bus, otcodec.ReadData, 200, 0, 10*time.Millisecond, 5, nil)
	var engineErr *Error
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, OutcomeUnknownDataID, engineErr.Outcome)
	assert.Equal(t, 1, calls, "UNKNOWN-DATAID must not be retried")
}

// P5: retryable failures call the exchange at most maxRetries+1 times.
func TestExchangeRetriesOnTimeout(t *testing.T) {
	calls := 0
	bus := fakebus.New(func(tx uint64) (uint64, error) {
		calls++
		return 0, otbus.ErrTimeout
	})
	RetryBackoff = time.Millisecond
	_, err := ExchangeWithRetry(context.Background(), bus, otcodec.ReadData, 1, 0, 5*time.Millisecond, 3, nil)
	var engineErr *Error
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, OutcomeTimeout, engineErr.Outcome)
	assert.Equal(t, 4, calls)
}

func TestExchangeRetriesOnParityThenSucceeds(t *testing.T) {
	attempt := 0
	bus := fakebus.New(func(tx uint64) (uint64, error) {
		attempt++
		if attempt < 3 {
			frame := otcodec.EncodeFrame(otcodec.ReadAck, 25, 0x0A00)
			word := otcodec.EncodeManchester(frame, false)
			return word ^ 0b11, nil // swap the last Manchester pair: one logical bit flips, so parity fails
		}
		frame := otcodec.EncodeFrame(otcodec.ReadAck, 25, 0x0A00)
		return otcodec.EncodeManchester(frame, false), nil
	})
	RetryBackoff = time.Millisecond
	resp, err := ExchangeWithRetry(context.Background(), bus, otcodec.ReadData, 25, 0, 10*time.Millisecond, 5, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0x0A00, resp.Value)
	assert.Equal(t, 3, attempt)
}

// P6-adjacent: manchester corruption classifies distinctly from parity.
func TestExchangeManchesterError(t *testing.T) {
	bus := fakebus.New(func(tx uint64) (uint64, error) {
		frame := otcodec.EncodeFrame(otcodec.ReadAck, 1, 0)
		word := otcodec.EncodeManchester(frame, false)
		// Force a 2-bit group to 00, an invalid manchester pair.
		return word &^ 0b11, nil
	})
	_, err := Exchange(context.Background(), bus, otcodec.ReadData, 1, 0, nil)
	var engineErr *Error
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, OutcomeManchesterError, engineErr.Outcome)
}

// A driver-level I/O error (not otbus.ErrTimeout) surfaces as a
// BusFaultError and is never retried: it means the bus itself is
// broken, not that this one exchange was lost.
func TestExchangeBusFaultNotRetried(t *testing.T) {
	calls := 0
	bus := fakebus.New(func(tx uint64) (uint64, error) {
		calls++
		return 0, errors.New("gpiocdev: line request closed")
	})
	RetryBackoff = time.Millisecond
	_, err := ExchangeWithRetry(context.Background(), bus, otcodec.ReadData, 1, 0, 5*time.Millisecond, 3, nil)
	var faultErr *BusFaultError
	require.True(t, errors.As(err, &faultErr))
	assert.Equal(t, 1, calls, "a bus fault must not be retried by the exchange wrapper")
}

type countingRecorder struct {
	counts map[Outcome]int
}

func (c *countingRecorder) RecordExchange(dataID uint8, outcome Outcome) {
	if c.counts == nil {
		c.counts = map[Outcome]int{}
	}
	c.counts[outcome]++
}

func TestExchangeRecordsOutcome(t *testing.T) {
	rec := &countingRecorder{}
	bus := fakebus.New(ackResponder(otcodec.ReadAck, 0, 0))
	_, err := Exchange(context.Background(), bus, otcodec.ReadData, 0, 0, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.counts[OutcomeACKOK])
}
