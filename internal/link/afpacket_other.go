//go:build !linux

package link

import (
	"fmt"
	"runtime"

	"firestige.xyz/arpdrop/internal/core"
)

func openChannel(name string, _ Options) (Channel, error) {
	return nil, fmt.Errorf("%w: AF_PACKET channels are not available on %s (interface %s)", core.ErrUnsupportedChannel, runtime.GOOS, name)
}
