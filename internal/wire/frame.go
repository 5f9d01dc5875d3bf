// Package wire implements the fixed-layout little-endian binary frames
// exchanged between the PLC coordinator and the six station runtimes, and
// the TCP transport that carries them. Layouts are defined exactly as
// packed records — field order and width are load-bearing, not merely
// documentation — grounded on the teacher corpus's internal/uapi manual
// binary.LittleEndian encode/decode style (no reflection, no external
// codec library).
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SignalFrameLen is the fixed wire length of a PLC→Station command frame.
const SignalFrameLen = 9

// SignalFrame is the command record sent by the PLC to a station on every
// scan tick: cmd_start, cmd_stop, cmd_reset, batch_id, recipe_id.
type SignalFrame struct {
	CmdStart  uint8
	CmdStop   uint8
	CmdReset  uint8
	BatchID   uint32
	RecipeID  uint16
}

// EncodeSignalFrame packs f into its 9-byte wire representation.
func EncodeSignalFrame(f SignalFrame) []byte {
	buf := make([]byte, SignalFrameLen)
	buf[0] = f.CmdStart
	buf[1] = f.CmdStop
	buf[2] = f.CmdReset
	binary.LittleEndian.PutUint32(buf[3:7], f.BatchID)
	binary.LittleEndian.PutUint16(buf[7:9], f.RecipeID)
	return buf
}

// DecodeSignalFrame unpacks a 9-byte command frame. A short buffer is a
// caller error (the transport is responsible for only forwarding frames of
// the declared length).
func DecodeSignalFrame(buf []byte) (SignalFrame, error) {
	if len(buf) != SignalFrameLen {
		return SignalFrame{}, fmt.Errorf("wire: signal frame length %d, want %d", len(buf), SignalFrameLen)
	}
	return SignalFrame{
		CmdStart: buf[0],
		CmdStop:  buf[1],
		CmdReset: buf[2],
		BatchID:  binary.LittleEndian.Uint32(buf[3:7]),
		RecipeID: binary.LittleEndian.Uint16(buf[7:9]),
	}, nil
}

// StatusCommon is the 7-byte prefix shared by every station's StatusFrame.
type StatusCommon struct {
	Ready       uint8
	Busy        uint8
	Fault       uint8
	Done        uint8
	CycleTimeMs uint32
}

const statusCommonLen = 7

func encodeStatusCommon(buf []byte, c StatusCommon) {
	buf[0] = c.Ready
	buf[1] = c.Busy
	buf[2] = c.Fault
	buf[3] = c.Done
	binary.LittleEndian.PutUint32(buf[4:8], c.CycleTimeMs)
}

func decodeStatusCommon(buf []byte) StatusCommon {
	return StatusCommon{
		Ready:       buf[0],
		Busy:        buf[1],
		Fault:       buf[2],
		Done:        buf[3],
		CycleTimeMs: binary.LittleEndian.Uint32(buf[4:8]),
	}
}

// ── S1 kitting ──

const S1StatusLen = statusCommonLen + 2

type S1Status struct {
	StatusCommon
	InventoryOK    uint8
	AnyArmFailed   uint8
}

func EncodeS1Status(s S1Status) []byte {
	buf := make([]byte, S1StatusLen)
	encodeStatusCommon(buf, s.StatusCommon)
	buf[7] = s.InventoryOK
	buf[8] = s.AnyArmFailed
	return buf
}

func DecodeS1Status(buf []byte) (S1Status, error) {
	if len(buf) != S1StatusLen {
		return S1Status{}, fmt.Errorf("wire: S1 status length %d, want %d", len(buf), S1StatusLen)
	}
	return S1Status{
		StatusCommon: decodeStatusCommon(buf),
		InventoryOK:  buf[7],
		AnyArmFailed: buf[8],
	}, nil
}

// ── S2 frame assembly ──

const S2StatusLen = statusCommonLen + 20

type S2Status struct {
	StatusCommon
	Completed      uint32
	Scrapped       uint32
	Reworks        uint32
	CycleTimeAvgS  float64
}

func EncodeS2Status(s S2Status) []byte {
	buf := make([]byte, S2StatusLen)
	encodeStatusCommon(buf, s.StatusCommon)
	binary.LittleEndian.PutUint32(buf[7:11], s.Completed)
	binary.LittleEndian.PutUint32(buf[11:15], s.Scrapped)
	binary.LittleEndian.PutUint32(buf[15:19], s.Reworks)
	binary.LittleEndian.PutUint64(buf[19:27], math.Float64bits(s.CycleTimeAvgS))
	return buf
}

func DecodeS2Status(buf []byte) (S2Status, error) {
	if len(buf) != S2StatusLen {
		return S2Status{}, fmt.Errorf("wire: S2 status length %d, want %d", len(buf), S2StatusLen)
	}
	return S2Status{
		StatusCommon:  decodeStatusCommon(buf),
		Completed:     binary.LittleEndian.Uint32(buf[7:11]),
		Scrapped:      binary.LittleEndian.Uint32(buf[11:15]),
		Reworks:       binary.LittleEndian.Uint32(buf[15:19]),
		CycleTimeAvgS: math.Float64frombits(binary.LittleEndian.Uint64(buf[19:27])),
	}, nil
}

// ── S3 wiring ──

const S3StatusLen = statusCommonLen + 2

type S3Status struct {
	StatusCommon
	StrainReliefOK uint8
	ContinuityOK   uint8
}

func EncodeS3Status(s S3Status) []byte {
	buf := make([]byte, S3StatusLen)
	encodeStatusCommon(buf, s.StatusCommon)
	buf[7] = s.StrainReliefOK
	buf[8] = s.ContinuityOK
	return buf
}

func DecodeS3Status(buf []byte) (S3Status, error) {
	if len(buf) != S3StatusLen {
		return S3Status{}, fmt.Errorf("wire: S3 status length %d, want %d", len(buf), S3StatusLen)
	}
	return S3Status{
		StatusCommon:   decodeStatusCommon(buf),
		StrainReliefOK: buf[7],
		ContinuityOK:   buf[8],
	}, nil
}

// ── S4 calibration ──

const S4StatusLen = statusCommonLen + 8

type S4Status struct {
	StatusCommon
	Total     uint32
	Completed uint32
}

func EncodeS4Status(s S4Status) []byte {
	buf := make([]byte, S4StatusLen)
	encodeStatusCommon(buf, s.StatusCommon)
	binary.LittleEndian.PutUint32(buf[7:11], s.Total)
	binary.LittleEndian.PutUint32(buf[11:15], s.Completed)
	return buf
}

func DecodeS4Status(buf []byte) (S4Status, error) {
	if len(buf) != S4StatusLen {
		return S4Status{}, fmt.Errorf("wire: S4 status length %d, want %d", len(buf), S4StatusLen)
	}
	return S4Status{
		StatusCommon: decodeStatusCommon(buf),
		Total:        binary.LittleEndian.Uint32(buf[7:11]),
		Completed:    binary.LittleEndian.Uint32(buf[11:15]),
	}, nil
}

// ── S5 quality ──

const S5StatusLen = statusCommonLen + 9

type S5Status struct {
	StatusCommon
	Accept     uint32
	Reject     uint32
	LastAccept uint8
}

func EncodeS5Status(s S5Status) []byte {
	buf := make([]byte, S5StatusLen)
	encodeStatusCommon(buf, s.StatusCommon)
	binary.LittleEndian.PutUint32(buf[7:11], s.Accept)
	binary.LittleEndian.PutUint32(buf[11:15], s.Reject)
	buf[15] = s.LastAccept
	return buf
}

func DecodeS5Status(buf []byte) (S5Status, error) {
	if len(buf) != S5StatusLen {
		return S5Status{}, fmt.Errorf("wire: S5 status length %d, want %d", len(buf), S5StatusLen)
	}
	return S5Status{
		StatusCommon: decodeStatusCommon(buf),
		Accept:       binary.LittleEndian.Uint32(buf[7:11]),
		Reject:       binary.LittleEndian.Uint32(buf[11:15]),
		LastAccept:   buf[15],
	}, nil
}

// ── S6 packaging ──

// S6StatusLen is 47 bytes: the 7-byte common prefix, three u32 counters,
// a 4-byte reserved pad bringing the f64 trio onto an 8-byte boundary (the
// packed layout's declared +40B suffix, four bytes over the 36 the bare
// field list sums to), then three f64 fields.
const S6StatusLen = statusCommonLen + 40

type S6Status struct {
	StatusCommon
	PackagesCompleted uint32
	ArmCycles         uint32
	TotalRepairs      uint32
	OperationalTimeS  float64
	DowntimeS         float64
	Availability      float64
}

func EncodeS6Status(s S6Status) []byte {
	buf := make([]byte, S6StatusLen)
	encodeStatusCommon(buf, s.StatusCommon)
	binary.LittleEndian.PutUint32(buf[7:11], s.PackagesCompleted)
	binary.LittleEndian.PutUint32(buf[11:15], s.ArmCycles)
	binary.LittleEndian.PutUint32(buf[15:19], s.TotalRepairs)
	// 4-byte reserved pad at buf[19:23] aligns the f64 trio to an 8-byte boundary.
	binary.LittleEndian.PutUint64(buf[23:31], math.Float64bits(s.OperationalTimeS))
	binary.LittleEndian.PutUint64(buf[31:39], math.Float64bits(s.DowntimeS))
	binary.LittleEndian.PutUint64(buf[39:47], math.Float64bits(s.Availability))
	return buf
}

func DecodeS6Status(buf []byte) (S6Status, error) {
	if len(buf) != S6StatusLen {
		return S6Status{}, fmt.Errorf("wire: S6 status length %d, want %d", len(buf), S6StatusLen)
	}
	return S6Status{
		StatusCommon:      decodeStatusCommon(buf),
		PackagesCompleted: binary.LittleEndian.Uint32(buf[7:11]),
		ArmCycles:         binary.LittleEndian.Uint32(buf[11:15]),
		TotalRepairs:      binary.LittleEndian.Uint32(buf[15:19]),
		OperationalTimeS:  math.Float64frombits(binary.LittleEndian.Uint64(buf[23:31])),
		DowntimeS:         math.Float64frombits(binary.LittleEndian.Uint64(buf[31:39])),
		Availability:      math.Float64frombits(binary.LittleEndian.Uint64(buf[39:47])),
	}, nil
}

// StatusLenForStation returns the expected StatusFrame length for a
// station name ("S1".."S6"), or 0 if unknown.
func StatusLenForStation(station string) int {
	switch station {
	case "S1":
		return S1StatusLen
	case "S2":
		return S2StatusLen
	case "S3":
		return S3StatusLen
	case "S4":
		return S4StatusLen
	case "S5":
		return S5StatusLen
	case "S6":
		return S6StatusLen
	default:
		return 0
	}
}
