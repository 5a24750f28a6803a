// Package codec encodes and decodes Ethernet frames carrying ARP messages.
package codec

import (
	"encoding/binary"

	"firestige.xyz/arpdrop/internal/core"
)

const (
	// EthernetHeaderLen is the untagged Ethernet II header size.
	EthernetHeaderLen = 14
	// ARPFrameLen is an Ethernet header followed by one ARP message, without padding.
	ARPFrameLen = EthernetHeaderLen + ARPMessageLen
)

// DecodeEthernet exposes the header fields of raw and its payload.
// The payload is a sub-slice of raw; nothing is copied.
func DecodeEthernet(raw []byte) (core.EthernetFrame, bool) {
	if len(raw) < EthernetHeaderLen {
		return core.EthernetFrame{}, false
	}

	var eth core.EthernetFrame
	copy(eth.DstMAC[:], raw[0:6])
	copy(eth.SrcMAC[:], raw[6:12])
	eth.EtherType = binary.BigEndian.Uint16(raw[12:14])
	eth.Payload = raw[EthernetHeaderLen:]
	return eth, true
}

func putEthernetHeader(b []byte, dst, src core.MAC, etherType uint16) {
	copy(b[0:6], dst[:])
	copy(b[6:12], src[:])
	binary.BigEndian.PutUint16(b[12:14], etherType)
}
