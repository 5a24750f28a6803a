// Package link provides raw link-layer channels bound to network interfaces.
package link

import (
	"errors"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/google/gopacket"

	"firestige.xyz/arpdrop/internal/core"
)

// ErrReadTimeout is returned by a Receiver when no frame arrived within its poll timeout.
// It is not a failure: callers keep reading.
var ErrReadTimeout = errors.New("link: read timeout")

// Sender injects complete Ethernet frames.
type Sender interface {
	WritePacketData(data []byte) error
}

// Receiver returns the next captured frame. The returned slice is only valid
// until the next call.
type Receiver interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
}

// Channel is a sender and receiver pair bound to one interface.
// A Channel is owned by a single goroutine.
type Channel interface {
	Sender
	Receiver
	Close() error
}

// Provider enumerates interfaces and opens channels on them.
type Provider interface {
	Interfaces() ([]core.Interface, error)
	Open(iface core.Interface) (Channel, error)
}

// Options configures channels opened by the system provider.
type Options struct {
	ReadTimeout  time.Duration // poll timeout of a single read
	SnapLen      int           // bytes captured per frame
	BufferSizeKB int           // receive ring size
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		ReadTimeout:  500 * time.Millisecond,
		SnapLen:      1514,
		BufferSizeKB: 512,
	}
}

// IsTimeout reports whether err only signals that no frame arrived in time.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrReadTimeout) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EINTR) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
