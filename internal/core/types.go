// Package core defines core types with zero external dependencies.
package core

import (
	"fmt"
	"net"
	"net/netip"
)

// Wire constants for ARP over Ethernet.
const (
	EtherTypeIPv4 uint16 = 0x0800
	EtherTypeARP  uint16 = 0x0806

	HardwareTypeEthernet uint16 = 1

	MACLen  = 6
	IPv4Len = 4
)

// MAC is a 48-bit link-layer address. It is a value type and safe to compare with ==.
type MAC [MACLen]byte

// Broadcast asks every host on the segment.
var Broadcast = MAC{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// String renders the address as lower-case colon separated hex.
func (m MAC) String() string {
	return net.HardwareAddr(m[:]).String()
}

// HardwareAddr returns a copy of m as a net.HardwareAddr.
func (m MAC) HardwareAddr() net.HardwareAddr {
	hw := make(net.HardwareAddr, MACLen)
	copy(hw, m[:])
	return hw
}

// MACFromHardwareAddr converts hw, reporting false unless it is exactly 6 bytes long.
func MACFromHardwareAddr(hw net.HardwareAddr) (MAC, bool) {
	var m MAC
	if len(hw) != MACLen {
		return m, false
	}
	copy(m[:], hw)
	return m, true
}

// ParseMAC parses a 48-bit address in any form accepted by net.ParseMAC.
func ParseMAC(s string) (MAC, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return MAC{}, err
	}
	m, ok := MACFromHardwareAddr(hw)
	if !ok {
		return MAC{}, fmt.Errorf("%q is not a 48-bit MAC address", s)
	}
	return m, nil
}

// MustParseMAC is ParseMAC that panics on error. Intended for tests and constants.
func MustParseMAC(s string) MAC {
	m, err := ParseMAC(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Operation is the ARP opcode.
type Operation uint16

const (
	OpRequest Operation = 1
	OpReply   Operation = 2
)

func (o Operation) String() string {
	switch o {
	case OpRequest:
		return "request"
	case OpReply:
		return "reply"
	default:
		return fmt.Sprintf("op(%d)", uint16(o))
	}
}

// ARPMessage is the 28-byte ARP payload for Ethernet/IPv4.
// Decoded messages carry the wire values of the type and length fields unvalidated.
type ARPMessage struct {
	HardwareType uint16
	ProtocolType uint16
	HardwareLen  uint8
	ProtocolLen  uint8
	Operation    Operation
	SenderMAC    MAC
	SenderIP     netip.Addr
	TargetMAC    MAC
	TargetIP     netip.Addr
}

// NewARPMessage builds a message with the fixed Ethernet/IPv4 type and length fields.
func NewARPMessage(op Operation, senderIP netip.Addr, senderMAC MAC, targetIP netip.Addr, targetMAC MAC) ARPMessage {
	return ARPMessage{
		HardwareType: HardwareTypeEthernet,
		ProtocolType: EtherTypeIPv4,
		HardwareLen:  MACLen,
		ProtocolLen:  IPv4Len,
		Operation:    op,
		SenderMAC:    senderMAC,
		SenderIP:     senderIP,
		TargetMAC:    targetMAC,
		TargetIP:     targetIP,
	}
}

// EthernetFrame is a view of an L2 frame. Payload aliases the decoded buffer.
type EthernetFrame struct {
	DstMAC    MAC
	SrcMAC    MAC
	EtherType uint16
	Payload   []byte
}

// Interface is a read-only snapshot of a link interface.
type Interface struct {
	Index       int
	Name        string
	Description string
	MAC         *MAC         // nil when the interface has no hardware address
	Addrs       []netip.Addr // bound addresses in system order, v4 and v6 mixed
}

// IPv4 returns the first bound IPv4 address.
func (i Interface) IPv4() (netip.Addr, bool) {
	for _, a := range i.Addrs {
		if a.Is4() || a.Is4In6() {
			return a.Unmap(), true
		}
	}
	return netip.Addr{}, false
}
