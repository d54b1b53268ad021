// waitset provides an interruptible bounded wait for socket readability.
package waitset

import (
	"context"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// waitSlice is the length of one poll attempt. A cancellation request
// is observed within at most one slice, even though a single poll call
// is a plain blocking wait.
const waitSlice = 300 * time.Millisecond

// WaitSet polls one socket for readability.
type WaitSet struct {
	rawConn syscall.RawConn
}

// New wraps a connection for readiness waits. Any *net.UDPConn
// satisfies syscall.Conn.
func New(conn syscall.Conn) (*WaitSet, error) {
	rc, err := conn.SyscallConn()
	if err != nil {
		return nil, err
	}
	return &WaitSet{rawConn: rc}, nil
}

// Wait blocks until the socket has data to read, the timeout expires
// or ctx is cancelled. The result is (true, nil) when data is ready
// and (false, nil) on timeout. Timeout is an operational signal, not
// an error; a non-nil error means cancellation or a poll fault.
func (w *WaitSet) Wait(ctx context.Context, timeout time.Duration) (bool, error) {
	attempts := int((timeout + waitSlice - 1) / waitSlice)
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		ready, err := w.pollOnce(waitSlice)
		if err != nil {
			return false, err
		}
		if ready {
			return true, nil
		}
	}
	return false, nil
}

func (w *WaitSet) pollOnce(timeout time.Duration) (bool, error) {
	var ready bool
	var pollErr error

	err := w.rawConn.Control(func(fd uintptr) {
		pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		for {
			n, err := unix.Poll(pfd, int(timeout.Milliseconds()))
			if err == unix.EINTR {
				continue
			}
			if err != nil {
				pollErr = err
				return
			}
			ready = n > 0 && pfd[0].Revents&unix.POLLIN != 0
			return
		}
	})
	if err != nil {
		return false, err
	}
	return ready, pollErr
}
