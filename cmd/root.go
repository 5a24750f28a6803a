// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"firestige.xyz/arpdrop/internal/config"
	"firestige.xyz/arpdrop/internal/link"
	"firestige.xyz/arpdrop/internal/log"
)

var version = "0.1.0"

var (
	// Global flags
	configFile string
	logLevel   string
	logFormat  string

	// cfg is loaded once per invocation, before any subcommand runs.
	cfg *config.Config

	// newProvider is replaced in tests.
	newProvider = func(c *config.Config) link.Provider {
		return link.NewSystemProvider(linkOptions(c.Link))
	}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "arpdrop",
	Short: "Drop a LAN host's gateway traffic by poisoning the gateway's ARP cache",
	Long: `arpdrop makes a gateway believe that a target IPv4 address belongs to this
host's MAC. Frames the gateway sends to the target are delivered here and dropped.

Commands:
  list    enumerate datalink interfaces
  drop    resolve the gateway and keep its ARP entry for the target poisoned

Opening a datalink channel needs root or CAP_NET_RAW.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"log format: text, json")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the effective configuration and installs the logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := log.Init(c.Log); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	cfg = c
	log.GetLogger().WithField("config", configFile).Debug("configuration loaded")
	return nil
}

func linkOptions(c config.LinkConfig) link.Options {
	return link.Options{
		ReadTimeout:  c.ReadTimeout,
		SnapLen:      c.SnapLen,
		BufferSizeKB: c.BufferSizeKB,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "arpdrop %s\n", version)
	},
}
