package otid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adq/picotherm/internal/otbus/fakebus"
	"github.com/adq/picotherm/internal/otcodec"
)

func newTestClient(responder fakebus.Responder) *Client {
	return &Client{
		Bus:        fakebus.New(responder),
		Timeout:    10 * time.Millisecond,
		MaxRetries: 1,
	}
}

func ackWith(ack otcodec.MsgType, dataID uint8, value uint16) fakebus.Responder {
	frame := otcodec.EncodeFrame(ack, dataID, value)
	return fakebus.Const(otcodec.EncodeManchester(frame, false))
}

// spec §8 scenario 4: read_dhw_setpoint_range() against (READ-ACK, 48, 0x1F0A) -> (min=10, max=31).
func TestReadDHWSetpointBounds(t *testing.T) {
	client := newTestClient(ackWith(otcodec.ReadAck, IDDHWSetpointBounds, 0x1F0A))
	bounds, err := client.ReadDHWSetpointBounds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SetpointBounds{Min: 10, Max: 31}, bounds)
}

// spec §8 scenario 5: control_ch_setpoint(50.0) issues exactly one
// WRITE-DATA for ID 1 with value 0x3200.
func TestWriteTSetIssuesExactlyOneWrite(t *testing.T) {
	calls := 0
	var gotDataID uint8
	var gotValue uint16
	client := newTestClient(func(tx uint64) (uint64, error) {
		calls++
		frame, err := otcodec.DecodeManchester(tx, true)
		require.NoError(t, err)
		decoded, err := otcodec.DecodeFrame(frame)
		require.NoError(t, err)
		assert.Equal(t, otcodec.WriteData, decoded.MsgType)
		gotDataID = decoded.DataID
		gotValue = decoded.Value
		ack := otcodec.EncodeFrame(otcodec.WriteAck, decoded.DataID, decoded.Value)
		return otcodec.EncodeManchester(ack, false), nil
	})
	err := client.WriteTSet(context.Background(), 50.0)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.EqualValues(t, IDTSet, gotDataID)
	assert.EqualValues(t, 0x3200, gotValue)
}

// spec §8 scenario 3: status_exchange(ch_enabled=true, dhw_enabled=true)
// against (READ-ACK, 0, 0x00FF) yields all flags true.
func TestExchangeStatusAllFlagsTrue(t *testing.T) {
	client := newTestClient(ackWith(otcodec.ReadAck, IDStatus, 0x00FF))
	got, err := client.ExchangeStatus(context.Background(), StatusFlags{CHEnable: true, DHWEnable: true})
	require.NoError(t, err)
	assert.True(t, got.Fault)
	assert.True(t, got.CHActive)
	assert.True(t, got.DHWActive)
	assert.True(t, got.FlameActive)
	assert.True(t, got.CoolingActive)
	assert.True(t, got.CH2Active)
	assert.True(t, got.DiagnosticEvent)
}

// P6: every writer rejects out-of-range input without any bus traffic.
func TestWritersRejectOutOfRange(t *testing.T) {
	calls := 0
	client := newTestClient(func(tx uint64) (uint64, error) {
		calls++
		return 0, errors.New("should not be called")
	})

	err := client.WriteTSet(context.Background(), 150.0)
	var rangeErr *RangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, IDTSet, rangeErr.DataID)
	assert.Equal(t, 0, calls, "range-violating writer must not touch the bus")

	err = client.WriteRoomSetpoint(context.Background(), -50.0)
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 0, calls)

	err = client.WriteHCRatio(context.Background(), 100.0)
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 0, calls)
}

func TestRBPFlagsLayout(t *testing.T) {
	// support bits in high byte (0x0100/0x0200), r/w bits in low byte (0x10/0x20).
	client := newTestClient(ackWith(otcodec.ReadAck, IDRBPFlags, 0x0300|0x0030))
	flags, err := client.ReadRBPFlags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PermissionReadWrite, flags.DHWSetpoint)
	assert.Equal(t, PermissionReadWrite, flags.MaxCHSetpoint)

	client2 := newTestClient(ackWith(otcodec.ReadAck, IDRBPFlags, 0x0100))
	flags2, err := client2.ReadRBPFlags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PermissionReadOnly, flags2.DHWSetpoint)
	assert.Equal(t, PermissionUnsupported, flags2.MaxCHSetpoint)
}

func TestReadFanSpeed(t *testing.T) {
	client := newTestClient(ackWith(otcodec.ReadAck, IDFanSpeed, 0x0010))
	rpm, err := client.ReadFanSpeed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 16*60, rpm)
}

func TestReadExhaustTempNegative(t *testing.T) {
	client := newTestClient(ackWith(otcodec.ReadAck, IDExhaustTemp, 0xFFFE)) // -2
	temp, err := client.ReadExhaustTemp(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, -2, temp)
}
