package wire

import (
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/lineforge/assembly-line-sim/internal/log"
)

// pollTimeout bounds how long a non-blocking frame read waits per scan
// tick before treating the absence of data as a non-event.
const pollTimeout = 2 * time.Millisecond

// PLCTransport owns one TCP listener per station port and learns each
// station's write-capable connection handle when that station's connection
// is accepted, before any frame has been read from it; a later connection
// accepted on the same port replaces it. The listener itself is never used
// for writes. Grounded on
// the teacher's internal/command.UDSServer accept-loop/connection-map/
// WaitGroup-drain pattern, adapted from a Unix-domain JSON-RPC server to
// raw per-station TCP binary frames.
type PLCTransport struct {
	logger log.Logger

	mu        sync.Mutex
	listeners map[string]net.Listener
	conns     map[string]net.Conn
	stopped   bool
	wg        sync.WaitGroup
}

// ListenPLC binds one TCP listener per entry of ports (station name →
// TCP port, e.g. "S1" → 6001) and starts an accept loop for each.
func ListenPLC(ports map[string]int, logger log.Logger) (*PLCTransport, error) {
	t := &PLCTransport{
		logger:    logger,
		listeners: make(map[string]net.Listener, len(ports)),
		conns:     make(map[string]net.Conn, len(ports)),
	}

	for station, port := range ports {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			t.Close()
			return nil, fmt.Errorf("wire: listen %s on port %d: %w", station, port, err)
		}
		t.listeners[station] = ln
		t.wg.Add(1)
		go t.acceptLoop(station, ln)
	}

	return t, nil
}

func (t *PLCTransport) acceptLoop(station string, ln net.Listener) {
	defer t.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			t.mu.Lock()
			stopped := t.stopped
			t.mu.Unlock()
			if stopped {
				return
			}
			if t.logger != nil {
				t.logger.WithField("station", station).WithError(err).Warn("accept failed")
			}
			return
		}

		t.mu.Lock()
		if t.stopped {
			t.mu.Unlock()
			conn.Close()
			return
		}
		if old, ok := t.conns[station]; ok {
			old.Close()
		}
		t.conns[station] = conn
		t.mu.Unlock()
	}
}

// ReadFrame attempts a non-blocking read of exactly wantLen bytes from the
// station's learned connection. ok is false when there is no connection
// yet, the poll window elapsed with no data (a non-event), or the frame
// was short/malformed (silently discarded per the error taxonomy).
func (t *PLCTransport) ReadFrame(station string, wantLen int) (buf []byte, ok bool) {
	t.mu.Lock()
	conn, have := t.conns[station]
	t.mu.Unlock()
	if !have {
		return nil, false
	}

	conn.SetReadDeadline(time.Now().Add(pollTimeout))
	buf = make([]byte, wantLen)
	n, err := io.ReadFull(conn, buf)
	if err != nil || n != wantLen {
		return nil, false
	}
	return buf, true
}

// WriteFrame sends buf to the station's learned connection. It returns an
// error if no peer handle has been learned yet; callers should skip the
// TX for that station this tick and retry next tick per the error
// taxonomy.
func (t *PLCTransport) WriteFrame(station string, buf []byte) error {
	t.mu.Lock()
	conn, have := t.conns[station]
	t.mu.Unlock()
	if !have {
		return fmt.Errorf("wire: no learned peer handle for %s", station)
	}
	_, err := conn.Write(buf)
	return err
}

// Close stops accepting new connections, closes every listener and
// tracked connection, and waits for the accept loops to drain.
func (t *PLCTransport) Close() error {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return nil
	}
	t.stopped = true
	for _, ln := range t.listeners {
		ln.Close()
	}
	for _, conn := range t.conns {
		conn.Close()
	}
	t.mu.Unlock()

	t.wg.Wait()
	return nil
}

// StationConn is a single station's outbound connection to the PLC.
type StationConn struct {
	conn net.Conn
}

// DialStation opens the one TCP connection a station keeps open to its
// assigned PLC port.
func DialStation(serverURL string, port int) (*StationConn, error) {
	conn, err := net.Dial("tcp", fmt.Sprintf("%s:%d", serverURL, port))
	if err != nil {
		return nil, fmt.Errorf("wire: dial %s:%d: %w", serverURL, port, err)
	}
	return &StationConn{conn: conn}, nil
}

// ReadCommand attempts a non-blocking read of one 9-byte SignalFrame. ok
// is false on a poll timeout (non-event) or a malformed/short read
// (silently discarded).
func (s *StationConn) ReadCommand() (SignalFrame, bool) {
	s.conn.SetReadDeadline(time.Now().Add(pollTimeout))
	buf := make([]byte, SignalFrameLen)
	n, err := io.ReadFull(s.conn, buf)
	if err != nil || n != SignalFrameLen {
		return SignalFrame{}, false
	}
	f, err := DecodeSignalFrame(buf)
	if err != nil {
		return SignalFrame{}, false
	}
	return f, true
}

// WriteStatus sends a station's StatusFrame to the PLC.
func (s *StationConn) WriteStatus(buf []byte) error {
	_, err := s.conn.Write(buf)
	return err
}

// Close closes the station's connection to the PLC.
func (s *StationConn) Close() error {
	return s.conn.Close()
}
