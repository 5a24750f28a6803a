//go:build linux

package link

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/afpacket"
)

// afpacketChannel is a raw AF_PACKET socket with an mmap'd receive ring.
type afpacketChannel struct {
	tpacket *afpacket.TPacket
}

func openChannel(name string, opts Options) (Channel, error) {
	frameSize, blockSize, numBlocks, err := ringGeometry(opts.BufferSizeKB, opts.SnapLen, os.Getpagesize())
	if err != nil {
		return nil, fmt.Errorf("failed to compute ring geometry: %w", err)
	}

	tp, err := afpacket.NewTPacket(
		afpacket.OptInterface(name),
		afpacket.OptFrameSize(frameSize),
		afpacket.OptBlockSize(blockSize),
		afpacket.OptNumBlocks(numBlocks),
		afpacket.OptPollTimeout(opts.ReadTimeout),
		afpacket.SocketRaw,
		afpacket.TPacketVersion3,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create TPacket on %s: %w", name, err)
	}

	filter, err := CompileARPFilter(opts.SnapLen)
	if err != nil {
		tp.Close()
		return nil, fmt.Errorf("failed to assemble ARP filter: %w", err)
	}
	if err := tp.SetBPF(filter); err != nil {
		tp.Close()
		return nil, fmt.Errorf("failed to set ARP filter: %w", err)
	}

	return &afpacketChannel{tpacket: tp}, nil
}

func (c *afpacketChannel) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	data, ci, err := c.tpacket.ZeroCopyReadPacketData()
	if errors.Is(err, afpacket.ErrTimeout) {
		return nil, ci, ErrReadTimeout
	}
	return data, ci, err
}

func (c *afpacketChannel) WritePacketData(data []byte) error {
	return c.tpacket.WritePacketData(data)
}

func (c *afpacketChannel) Close() error {
	c.tpacket.Close()
	return nil
}
