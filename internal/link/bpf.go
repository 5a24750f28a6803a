package link

import (
	"golang.org/x/net/bpf"

	"firestige.xyz/arpdrop/internal/core"
)

// arpFilter accepts untagged Ethernet frames whose ethertype is ARP.
func arpFilter(snapLen int) []bpf.Instruction {
	return []bpf.Instruction{
		bpf.LoadAbsolute{Off: 12, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: uint32(core.EtherTypeARP), SkipFalse: 1},
		bpf.RetConstant{Val: uint32(snapLen)},
		bpf.RetConstant{Val: 0},
	}
}

// CompileARPFilter assembles the ARP filter for attaching to a socket.
func CompileARPFilter(snapLen int) ([]bpf.RawInstruction, error) {
	return bpf.Assemble(arpFilter(snapLen))
}
