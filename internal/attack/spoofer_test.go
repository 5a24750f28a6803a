package attack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/arpdrop/internal/core"
	"firestige.xyz/arpdrop/internal/core/codec"
)

func TestNewSpooferDefaults(t *testing.T) {
	assert.Equal(t, 2*time.Second, DefaultInterval)
	assert.Equal(t, DefaultInterval, NewSpoofer(0, 0).Interval())
	assert.Equal(t, DefaultInterval, NewSpoofer(-time.Second, -1).Interval())
	assert.Equal(t, 10*time.Millisecond, NewSpoofer(10*time.Millisecond, 0).Interval())
}

func TestSpooferCadence(t *testing.T) {
	const (
		iterations = 5
		interval   = 40 * time.Millisecond
		tolerance  = 200 * time.Millisecond
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := &fakeChannel{onWrite: func(n int) {
		if n == iterations {
			cancel()
		}
	}}

	s := NewSpoofer(interval, 2)
	err := s.Run(ctx, ch, targetIP, hostMAC, gatewayIP, gatewayMAC)
	assert.ErrorIs(t, err, context.Canceled)

	frames := ch.frames()
	require.Len(t, frames, iterations)
	assert.Equal(t, uint64(iterations), s.Sent())

	for i, frame := range frames {
		assert.Equal(t, frames[0], frame, "frame %d differs", i)
	}

	stamps := ch.times()
	for i := 1; i < len(stamps); i++ {
		gap := stamps[i].Sub(stamps[i-1])
		assert.GreaterOrEqual(t, gap, interval, "gap %d too short", i)
		assert.Less(t, gap, interval+tolerance, "gap %d too long", i)
	}
}

func TestSpooferFrameContents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := &fakeChannel{onWrite: func(int) { cancel() }}

	err := NewSpoofer(time.Hour, 0).Run(ctx, ch, targetIP, hostMAC, gatewayIP, gatewayMAC)
	assert.ErrorIs(t, err, context.Canceled)

	frames := ch.frames()
	require.Len(t, frames, 1)
	require.Len(t, frames[0], codec.ARPFrameLen)

	eth, ok := codec.DecodeEthernet(frames[0])
	require.True(t, ok)
	assert.Equal(t, gatewayMAC, eth.DstMAC)
	assert.Equal(t, hostMAC, eth.SrcMAC)
	assert.Equal(t, core.EtherTypeARP, eth.EtherType)

	msg, ok := codec.DecodeARP(eth.Payload)
	require.True(t, ok)
	assert.Equal(t, core.OpReply, msg.Operation)
	assert.Equal(t, targetIP, msg.SenderIP)
	assert.Equal(t, hostMAC, msg.SenderMAC)
	assert.Equal(t, gatewayIP, msg.TargetIP)
	assert.Equal(t, gatewayMAC, msg.TargetMAC)
}

// The wait between frames must not delay cancellation.
func TestSpooferCancelDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := &fakeChannel{}

	done := make(chan error, 1)
	go func() {
		done <- NewSpoofer(time.Hour, 0).Run(ctx, ch, targetIP, hostMAC, gatewayIP, gatewayMAC)
	}()

	require.Eventually(t, func() bool { return len(ch.frames()) == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("spoofer ignored cancellation while waiting")
	}
	assert.Len(t, ch.frames(), 1)
}

func TestSpooferSendErrorIsFatal(t *testing.T) {
	cause := errors.New("network is down")
	ch := &fakeChannel{writeErr: cause, failAfter: 2}

	s := NewSpoofer(time.Millisecond, 0)
	err := s.Run(context.Background(), ch, targetIP, hostMAC, gatewayIP, gatewayMAC)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTransport)
	assert.ErrorIs(t, err, cause)

	assert.Len(t, ch.frames(), 2, "only accepted frames count as sent")
	assert.Equal(t, uint64(2), s.Sent())
}

func TestSpooferRunsUntilStopped(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	ch := &fakeChannel{}

	err := NewSpoofer(5*time.Millisecond, 0).Run(ctx, ch, targetIP, hostMAC, gatewayIP, gatewayMAC)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, len(ch.frames()), 2, "the loop keeps sending until stopped")
}
