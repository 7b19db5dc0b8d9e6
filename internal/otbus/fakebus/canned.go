package fakebus

import "github.com/adq/picotherm/internal/otcodec"

// CannedBoiler is a Responder that ACKs every READ-DATA/WRITE-DATA
// request with value 0 (echoing the request's value for a write),
// for the debug CLI's --fake mode and the daemon's --bus=fake mode:
// enough for demo/CI use without a real boiler, without otcli's
// scanner or picothermd's control loop needing per-Data-ID fixtures.
func CannedBoiler(tx uint64) (uint64, error) {
	frame, err := otcodec.DecodeManchester(tx, true)
	if err != nil {
		return 0, err
	}
	req, err := otcodec.DecodeFrame(frame)
	if err != nil {
		return 0, err
	}

	var ack otcodec.MsgType
	var value uint16
	switch req.MsgType {
	case otcodec.ReadData:
		ack, value = otcodec.ReadAck, 0
	case otcodec.WriteData:
		ack, value = otcodec.WriteAck, req.Value
	default:
		ack, value = otcodec.UnknownDataID, 0
	}

	reply := otcodec.EncodeFrame(ack, req.DataID, value)
	return otcodec.EncodeManchester(reply, false), nil
}
