// Package attack implements ARP resolution and the forged-reply loop that
// black-holes traffic between a target and its gateway.
package attack

import (
	"context"
	"fmt"
	"net/netip"
	"sync/atomic"

	"firestige.xyz/arpdrop/internal/core"
	"firestige.xyz/arpdrop/internal/core/codec"
	"firestige.xyz/arpdrop/internal/link"
	"firestige.xyz/arpdrop/internal/log"
)

// Resolver maps an IPv4 address to the MAC address that owns it.
// Discarded may be read from any goroutine while Resolve is in progress.
type Resolver struct {
	discarded atomic.Uint64
}

// NewResolver returns a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Discarded returns how many frames the last Resolve call read and ignored.
func (r *Resolver) Discarded() uint64 {
	return r.discarded.Load()
}

// Resolve broadcasts one ARP request for targetIP and blocks until a reply from
// targetIP arrives. The request is never re-sent and there is no deadline other
// than ctx: with context.Background() a lost request blocks forever.
// IPv4-mapped IPv6 addresses are accepted and treated as their IPv4 form.
func (r *Resolver) Resolve(ctx context.Context, ch link.Channel, hostIP netip.Addr, hostMAC core.MAC, targetIP netip.Addr) (core.MAC, error) {
	hostIP, targetIP = hostIP.Unmap(), targetIP.Unmap()
	if !targetIP.Is4() {
		return core.MAC{}, fmt.Errorf("%w: resolve target %s is not IPv4", core.ErrInvalidAddress, targetIP)
	}
	if !hostIP.Is4() {
		return core.MAC{}, fmt.Errorf("%w: host address %s is not IPv4", core.ErrInvalidAddress, hostIP)
	}

	r.discarded.Store(0)
	logger := log.GetLogger().WithField("target", targetIP.String())

	request := codec.EncodeARPFrame(core.OpRequest, hostIP, hostMAC, targetIP, core.Broadcast)
	if err := ch.WritePacketData(request); err != nil {
		return core.MAC{}, fmt.Errorf("%w: send ARP request for %s: %w", core.ErrTransport, targetIP, err)
	}
	logger.Debug("ARP request sent")

	for {
		if err := ctx.Err(); err != nil {
			return core.MAC{}, err
		}

		data, _, err := ch.ReadPacketData()
		if err != nil {
			if link.IsTimeout(err) {
				continue
			}
			return core.MAC{}, fmt.Errorf("%w: read frame: %w", core.ErrTransport, err)
		}

		msg, ok := codec.DecodeARPFrame(data)
		if !ok || msg.Operation != core.OpReply || msg.SenderIP != targetIP {
			n := r.discarded.Add(1)
			if logger.IsTraceEnabled() {
				logger.WithFields(log.Fields{
					"len":       len(data),
					"arp":       ok,
					"op":        msg.Operation.String(),
					"sender":    msg.SenderIP.String(),
					"discarded": n,
				}).Trace("frame discarded")
			}
			continue
		}

		logger.WithFields(log.Fields{
			"mac":       msg.SenderMAC.String(),
			"discarded": r.discarded.Load(),
		}).Debug("ARP reply matched")
		return msg.SenderMAC, nil
	}
}
