package link

import (
	"fmt"
	"net"
	"net/netip"

	"firestige.xyz/arpdrop/internal/core"
	"firestige.xyz/arpdrop/internal/log"
)

// SystemProvider lists the host's interfaces and opens AF_PACKET channels on them.
type SystemProvider struct {
	opts Options
}

var _ Provider = (*SystemProvider)(nil)

// NewSystemProvider returns a provider opening channels with opts.
func NewSystemProvider(opts Options) *SystemProvider {
	return &SystemProvider{opts: opts}
}

// Interfaces returns a snapshot of every interface on the host.
func (p *SystemProvider) Interfaces() ([]core.Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	result := make([]core.Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			log.GetLogger().WithError(err).WithField("interface", iface.Name).Warn("failed to read interface addresses")
			addrs = nil
		}
		result = append(result, toInterface(iface, addrs))
	}
	return result, nil
}

// Open opens a raw channel on iface.
func (p *SystemProvider) Open(iface core.Interface) (Channel, error) {
	log.GetLogger().WithFields(log.Fields{
		"interface":    iface.Name,
		"index":        iface.Index,
		"read_timeout": p.opts.ReadTimeout,
		"snap_len":     p.opts.SnapLen,
	}).Debug("opening datalink channel")

	return openChannel(iface.Name, p.opts)
}

func toInterface(iface net.Interface, addrs []net.Addr) core.Interface {
	out := core.Interface{
		Index:       iface.Index,
		Name:        iface.Name,
		Description: iface.Name,
	}
	if mac, ok := core.MACFromHardwareAddr(iface.HardwareAddr); ok {
		out.MAC = &mac
	}
	for _, a := range addrs {
		var ip net.IP
		switch v := a.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		default:
			continue
		}
		if addr, ok := netip.AddrFromSlice(ip); ok {
			out.Addrs = append(out.Addrs, addr.Unmap())
		}
	}
	return out
}
