package udpt

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"time"

	"sensorpipe/internal/ebpf"
	"sensorpipe/internal/global"
	"sensorpipe/internal/logctx"
	"sensorpipe/internal/network"
	"sensorpipe/internal/ring"
	"sensorpipe/internal/stats"
	"sensorpipe/pkg/wire"
)

// New builds a Server bound to the shared ring and counters. Sockets
// are opened lazily in Run so a construction failure can be surfaced
// to the caller without partially starting workers.
func New(port, workers int, r *ring.Ring, counters *stats.Counters) *Server {
	return &Server{Port: port, Workers: workers, Ring: r, Counters: counters}
}

// Run opens Workers reuseport sockets on Port and blocks each in its
// own goroutine until ctx is cancelled. It returns once every worker
// goroutine has exited.
func (s *Server) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make(chan error, s.Workers)

	conns := make([]*net.UDPConn, 0, s.Workers)
	for i := 0; i < s.Workers; i++ {
		conn, err := network.ReuseUDPPort(s.Port)
		if err != nil {
			for _, c := range conns {
				c.Close()
			}
			return err
		}
		conn.SetReadBuffer(global.DefaultRecvBufferSize)
		conns = append(conns, conn)
	}

	for i, conn := range conns {
		wg.Add(1)
		go func(id int, conn *net.UDPConn) {
			defer wg.Done()
			s.runWorker(ctx, id, conn)
		}(i, conn)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) runWorker(ctx context.Context, id int, conn *net.UDPConn) {
	workerCtx := logctx.AppendCtxTag(ctx, global.NSUDP)

	cookie, cookieErr := ebpf.GetSocketCookie(conn)
	hasCookie := cookieErr == nil && cookie != 0

	defer func() {
		if hasCookie {
			_ = ebpf.MarkSocketDraining(global.KernelDrainMapPath, cookie)
		}
		conn.Close()
	}()

	buf := make([]byte, wire.MaxDatagram)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(readDeadline))
		n, err := conn.Read(buf)
		if err != nil {
			if isTransient(err) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			s.Counters.RecordRecvError()
			logctx.LogEvent(workerCtx, global.VerbosityStandard, global.ErrorLog,
				"udp worker %d: %v\n", id, err)
			return
		}

		s.Counters.RecordRecv(n)
		if pushErr := s.Ring.TryPush(buf[:n]); pushErr != nil {
			s.Counters.RecordDrop()
		}
	}
}

func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}
