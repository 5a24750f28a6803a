package link

import "fmt"

const (
	frameAlign = 16 // TPACKET_ALIGNMENT
	// frameOverhead covers the tpacket3 header and sockaddr_ll ahead of each frame.
	frameOverhead = 52
	minBlocks     = 2
)

// ringGeometry sizes the receive ring from the link.buffer_size_kb and
// link.snap_len settings. Each frame is frameAlign-aligned, a block is the
// smallest size that is both page- and frame-aligned, and at least minBlocks
// blocks are allocated.
func ringGeometry(bufferKB, snapLen, pageSize int) (frameSize, blockSize, numBlocks int, err error) {
	switch {
	case bufferKB <= 0:
		return 0, 0, 0, fmt.Errorf("link.buffer_size_kb must be positive, got %d", bufferKB)
	case snapLen <= 0:
		return 0, 0, 0, fmt.Errorf("link.snap_len must be positive, got %d", snapLen)
	case pageSize <= 0 || pageSize%frameAlign != 0:
		return 0, 0, 0, fmt.Errorf("page size %d is not a positive multiple of %d", pageSize, frameAlign)
	}

	frameSize = alignUp(frameOverhead+snapLen, frameAlign)
	blockSize = commonMultiple(pageSize, frameSize)
	numBlocks = max(bufferKB*1024/blockSize, minBlocks)
	return frameSize, blockSize, numBlocks, nil
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}

// commonMultiple returns the least common multiple of two positive sizes.
func commonMultiple(a, b int) int {
	x, y := a, b
	for y != 0 {
		x, y = y, x%y
	}
	return a / x * b
}
