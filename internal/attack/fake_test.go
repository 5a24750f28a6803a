package attack

import (
	"errors"
	"sync"
	"time"

	"github.com/google/gopacket"

	"firestige.xyz/arpdrop/internal/core"
	"firestige.xyz/arpdrop/internal/link"
)

// read is one scripted receiver result.
type read struct {
	data []byte
	err  error
}

// fakeChannel replays scripted reads and records every frame accepted for sending.
// Once the script is exhausted it yields link.ErrReadTimeout, like an idle link.
type fakeChannel struct {
	mu      sync.Mutex
	reads   []read
	written [][]byte
	stamps  []time.Time
	closed  bool

	writeErr   error // returned once writes reaches failAfter
	failAfter  int
	onWrite    func(n int) // called after the n-th accepted write
	idleDelay  time.Duration
	readsTaken int
}

var _ link.Channel = (*fakeChannel)(nil)

func (c *fakeChannel) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	c.mu.Lock()
	if len(c.reads) == 0 {
		delay := c.idleDelay
		c.mu.Unlock()
		if delay > 0 {
			time.Sleep(delay)
		}
		return nil, gopacket.CaptureInfo{}, link.ErrReadTimeout
	}
	r := c.reads[0]
	c.reads = c.reads[1:]
	c.readsTaken++
	c.mu.Unlock()
	return r.data, gopacket.CaptureInfo{CaptureLength: len(r.data), Length: len(r.data)}, r.err
}

func (c *fakeChannel) WritePacketData(data []byte) error {
	c.mu.Lock()
	if c.writeErr != nil && len(c.written) >= c.failAfter {
		c.mu.Unlock()
		return c.writeErr
	}
	frame := make([]byte, len(data))
	copy(frame, data)
	c.written = append(c.written, frame)
	c.stamps = append(c.stamps, time.Now())
	n := len(c.written)
	hook := c.onWrite
	c.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeChannel) frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.written...)
}

func (c *fakeChannel) times() []time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Time(nil), c.stamps...)
}

func (c *fakeChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// fakeProvider serves a fixed interface list and one channel.
type fakeProvider struct {
	ifaces  []core.Interface
	listErr error
	ch      *fakeChannel
	openErr error
	opened  []core.Interface
}

var _ link.Provider = (*fakeProvider)(nil)

func (p *fakeProvider) Interfaces() ([]core.Interface, error) {
	return p.ifaces, p.listErr
}

func (p *fakeProvider) Open(iface core.Interface) (link.Channel, error) {
	p.opened = append(p.opened, iface)
	if p.openErr != nil {
		return nil, p.openErr
	}
	if p.ch == nil {
		return nil, errors.New("no channel scripted")
	}
	return p.ch, nil
}
