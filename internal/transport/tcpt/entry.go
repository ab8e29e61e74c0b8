package tcpt

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"sync"

	"sensorpipe/internal/global"
	"sensorpipe/internal/logctx"
	"sensorpipe/internal/network"
	"sensorpipe/internal/ring"
	"sensorpipe/internal/stats"
	"sensorpipe/pkg/wire"
)

// New builds a Server. backlog is stored on the Server but not applied:
// Go's net.ListenConfig does not expose the listen(2) backlog argument,
// so the OS's default backlog applies.
func New(addr string, backlog int, r *ring.Ring, counters *stats.Counters) *Server {
	return &Server{Addr: addr, Backlog: backlog, Ring: r, Counters: counters}
}

// Run opens one reuseport TCP listener on Addr and accepts connections
// until ctx is cancelled, handling each connection on its own
// goroutine. It returns once every connection handler has exited.
func (s *Server) Run(ctx context.Context) error {
	listenCtx := logctx.AppendCtxTag(ctx, global.NSTCP)

	ln, err := network.ReuseTCPPort(s.Addr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logctx.LogEvent(listenCtx, global.VerbosityStandard, global.ErrorLog,
				"tcp accept: %v\n", err)
			return err
		}

		if tc, ok := conn.(*net.TCPConn); ok {
			tc.SetNoDelay(true)
			tc.SetReadBuffer(global.DefaultRecvBufferSize)
		}

		wg.Add(1)
		go func(c net.Conn) {
			defer wg.Done()
			s.handleConn(listenCtx, c)
		}(conn)
	}
}

// handleConn runs the ReadLen -> ValidateLen -> ReadBody -> Enqueue
// state machine for one connection until EOF, a framing error, or ctx
// cancellation.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	// Closing the connection on cancellation unblocks a pending read.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	lenBuf := make([]byte, wire.FrameLenSize)
	body := make([]byte, maxFrameLen)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, err := io.ReadFull(conn, lenBuf); err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF && ctx.Err() == nil {
				s.Counters.RecordRecvError()
				logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
					"tcp read length prefix: %v\n", err)
			}
			return
		}

		totalLen := binary.LittleEndian.Uint32(lenBuf)
		if totalLen < minFrameLen || totalLen > maxFrameLen {
			s.Counters.RecordRecvError()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"tcp frame length %d out of range [%d,%d], closing connection\n",
				totalLen, minFrameLen, maxFrameLen)
			return
		}

		frame := body[:totalLen]
		if _, err := io.ReadFull(conn, frame); err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF && ctx.Err() == nil {
				s.Counters.RecordRecvError()
				logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
					"tcp read body: %v\n", err)
			}
			return
		}

		s.Counters.RecordRecv(len(lenBuf) + len(frame))
		if err := s.Ring.TryPush(frame); err != nil {
			s.Counters.RecordDrop()
		}
	}
}
