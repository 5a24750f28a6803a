package codec

import (
	"encoding/binary"
	"net/netip"

	"firestige.xyz/arpdrop/internal/core"
)

// ARPMessageLen is the size of an ARP message for Ethernet/IPv4.
const ARPMessageLen = 28

// ARP field offsets within the message.
const (
	offHardwareType = 0
	offProtocolType = 2
	offHardwareLen  = 4
	offProtocolLen  = 5
	offOperation    = 6
	offSenderMAC    = 8
	offSenderIP     = 14
	offTargetMAC    = 18
	offTargetIP     = 24
)

// EncodeARP serializes msg into buf.
func EncodeARP(msg core.ARPMessage, buf *[ARPMessageLen]byte) {
	b := buf[:]
	binary.BigEndian.PutUint16(b[offHardwareType:], msg.HardwareType)
	binary.BigEndian.PutUint16(b[offProtocolType:], msg.ProtocolType)
	b[offHardwareLen] = msg.HardwareLen
	b[offProtocolLen] = msg.ProtocolLen
	binary.BigEndian.PutUint16(b[offOperation:], uint16(msg.Operation))
	copy(b[offSenderMAC:offSenderIP], msg.SenderMAC[:])
	putIPv4(b[offSenderIP:offTargetMAC], msg.SenderIP)
	copy(b[offTargetMAC:offTargetIP], msg.TargetMAC[:])
	putIPv4(b[offTargetIP:ARPMessageLen], msg.TargetIP)
}

// DecodeARP parses the fixed-offset fields of an ARP message.
// The type and length fields are reported as found on the wire, not validated.
func DecodeARP(payload []byte) (core.ARPMessage, bool) {
	if len(payload) < ARPMessageLen {
		return core.ARPMessage{}, false
	}

	msg := core.ARPMessage{
		HardwareType: binary.BigEndian.Uint16(payload[offHardwareType:]),
		ProtocolType: binary.BigEndian.Uint16(payload[offProtocolType:]),
		HardwareLen:  payload[offHardwareLen],
		ProtocolLen:  payload[offProtocolLen],
		Operation:    core.Operation(binary.BigEndian.Uint16(payload[offOperation:])),
		SenderIP:     netip.AddrFrom4([4]byte(payload[offSenderIP:offTargetMAC])),
		TargetIP:     netip.AddrFrom4([4]byte(payload[offTargetIP:ARPMessageLen])),
	}
	copy(msg.SenderMAC[:], payload[offSenderMAC:offSenderIP])
	copy(msg.TargetMAC[:], payload[offTargetMAC:offTargetIP])
	return msg, true
}

// EncodeARPFrame builds a 42-byte Ethernet frame carrying one ARP message.
// The frame is addressed to targetMAC and sourced from senderMAC.
func EncodeARPFrame(op core.Operation, senderIP netip.Addr, senderMAC core.MAC, targetIP netip.Addr, targetMAC core.MAC) []byte {
	var arp [ARPMessageLen]byte
	EncodeARP(core.NewARPMessage(op, senderIP, senderMAC, targetIP, targetMAC), &arp)

	frame := make([]byte, ARPFrameLen)
	putEthernetHeader(frame, targetMAC, senderMAC, core.EtherTypeARP)
	copy(frame[EthernetHeaderLen:], arp[:])
	return frame
}

// DecodeARPFrame returns the ARP message carried by raw, if raw is an ARP frame.
func DecodeARPFrame(raw []byte) (core.ARPMessage, bool) {
	eth, ok := DecodeEthernet(raw)
	if !ok || eth.EtherType != core.EtherTypeARP {
		return core.ARPMessage{}, false
	}
	return DecodeARP(eth.Payload)
}

// putIPv4 writes the 4-byte form of addr. Non-IPv4 addresses encode as 0.0.0.0.
func putIPv4(b []byte, addr netip.Addr) {
	if !addr.Is4() && !addr.Is4In6() {
		clear(b[:core.IPv4Len])
		return
	}
	a := addr.As4()
	copy(b, a[:])
}
