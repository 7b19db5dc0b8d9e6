package otengine

import (
	"context"
	"errors"

	"github.com/adq/picotherm/internal/otbus"
	"github.com/adq/picotherm/internal/otcodec"
)

// invertTX matches the driver convention noted in spec §4.B: the
// hardware inverts TX polarity, so the encoder is always called with
// invert=true for transmission and the decoder with invert=false for
// reception. This asymmetry is a line-driver property and is fully
// contained here; nothing above the engine needs to know about it.
const invertTX = true
const invertRX = false

// ackFor returns the msg_type a correctly behaving slave uses to
// acknowledge msgType, or ok=false if msgType has no slave ack (i.e.
// isn't a request a caller should be exchanging in the first place).
func ackFor(msgType otcodec.MsgType) (otcodec.MsgType, bool) {
	switch msgType {
	case otcodec.ReadData:
		return otcodec.ReadAck, true
	case otcodec.WriteData:
		return otcodec.WriteAck, true
	default:
		return 0, false
	}
}

// Recorder receives a notification for every exchange outcome, wired
// in production to internal/otmetrics. A nil Recorder is valid and
// records nothing.
type Recorder interface {
	RecordExchange(dataID uint8, outcome Outcome)
}

// Response is the classified ACK-OK result of a successful exchange
// (spec §3 "Exchange record", with outcome implied: a non-nil error
// return means no Response is produced).
type Response struct {
	MsgType otcodec.MsgType
	DataID  uint8
	Value   uint16
}

// Exchange performs one request/response transaction over bus: pack,
// transmit, wait for the reply, decode, and classify (spec §4.C).
// recorder may be nil.
func Exchange(ctx context.Context, bus otbus.Bus, msgType otcodec.MsgType, dataID uint8, value uint16, recorder Recorder) (Response, error) {
	record := func(outcome Outcome) {
		if recorder != nil {
			recorder.RecordExchange(dataID, outcome)
		}
	}

	expectedAck, ok := ackFor(msgType)
	if !ok {
		// Programmer error: not one of the two request kinds an
		// exchange can originate. Not part of the spec's retryable
		// taxonomy; callers never hit this through otid's typed
		// accessors.
		return Response{}, newError(OutcomeWrongAckID, dataID, errors.New("msg_type is not a request kind"))
	}

	frame := otcodec.EncodeFrame(msgType, dataID, value)
	txWord := otcodec.EncodeManchester(frame, invertTX)

	if err := bus.Transmit(ctx, txWord); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			record(OutcomeTimeout)
			return Response{}, newError(OutcomeTimeout, dataID, err)
		}
		return Response{}, newBusFault(err)
	}

	rxWord, err := bus.Receive(ctx)
	if err != nil {
		if errors.Is(err, otbus.ErrTimeout) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			record(OutcomeTimeout)
			return Response{}, newError(OutcomeTimeout, dataID, ErrTimeout)
		}
		return Response{}, newBusFault(err)
	}

	rxFrame, err := otcodec.DecodeManchester(rxWord, invertRX)
	if err != nil {
		record(OutcomeManchesterError)
		return Response{}, newError(OutcomeManchesterError, dataID, err)
	}

	decoded, err := otcodec.DecodeFrame(rxFrame)
	if err != nil {
		record(OutcomeParityError)
		return Response{}, newError(OutcomeParityError, dataID, err)
	}

	if decoded.DataID != dataID {
		record(OutcomeWrongAckID)
		return Response{}, newError(OutcomeWrongAckID, dataID, nil)
	}

	switch decoded.MsgType {
	case otcodec.DataInvalid:
		record(OutcomeDataInvalid)
		return Response{}, newError(OutcomeDataInvalid, dataID, nil)
	case otcodec.UnknownDataID:
		record(OutcomeUnknownDataID)
		return Response{}, newError(OutcomeUnknownDataID, dataID, nil)
	case expectedAck:
		record(OutcomeACKOK)
		return Response{MsgType: decoded.MsgType, DataID: decoded.DataID, Value: decoded.Value}, nil
	default:
		record(OutcomeWrongAckID)
		return Response{}, newError(OutcomeWrongAckID, dataID, errors.New("unexpected msg_type in reply"))
	}
}
