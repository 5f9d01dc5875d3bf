package wire

import (
	"testing"
	"time"
)

func TestPLCTransportLearnsPeerHandleAndRoundTrips(t *testing.T) {
	plc, err := ListenPLC(map[string]int{"S1": 16001}, nil)
	if err != nil {
		t.Fatalf("ListenPLC failed: %v", err)
	}
	defer plc.Close()

	station, err := DialStation("127.0.0.1", 16001)
	if err != nil {
		t.Fatalf("DialStation failed: %v", err)
	}
	defer station.Close()

	// Give the accept loop a moment to register the connection.
	time.Sleep(20 * time.Millisecond)

	if err := plc.WriteFrame("S1", EncodeSignalFrame(SignalFrame{CmdStart: 1})); err != nil {
		t.Fatalf("WriteFrame failed after connect: %v", err)
	}

	cmd, ok := station.ReadCommand()
	if !ok {
		t.Fatal("expected to read the command frame the PLC sent")
	}
	if cmd.CmdStart != 1 {
		t.Errorf("CmdStart = %d, want 1", cmd.CmdStart)
	}

	status := EncodeS1Status(S1Status{StatusCommon: StatusCommon{Ready: 1}})
	if err := station.WriteStatus(status); err != nil {
		t.Fatalf("WriteStatus failed: %v", err)
	}

	buf, ok := plc.ReadFrame("S1", S1StatusLen)
	if !ok {
		t.Fatal("expected PLC to read the station's status frame")
	}
	got, err := DecodeS1Status(buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Ready != 1 {
		t.Errorf("Ready = %d, want 1", got.Ready)
	}
}

func TestPLCTransportWriteFrameBeforeConnectFails(t *testing.T) {
	plc, err := ListenPLC(map[string]int{"S2": 16002}, nil)
	if err != nil {
		t.Fatalf("ListenPLC failed: %v", err)
	}
	defer plc.Close()

	if err := plc.WriteFrame("S2", EncodeSignalFrame(SignalFrame{})); err == nil {
		t.Fatal("expected error writing before any station connects")
	}
}

func TestPLCTransportReadFrameNoConnectionIsNonEvent(t *testing.T) {
	plc, err := ListenPLC(map[string]int{"S3": 16003}, nil)
	if err != nil {
		t.Fatalf("ListenPLC failed: %v", err)
	}
	defer plc.Close()

	if _, ok := plc.ReadFrame("S3", SignalFrameLen); ok {
		t.Fatal("expected no-event read before any station connects")
	}
}
