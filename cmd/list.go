package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"firestige.xyz/arpdrop/internal/link"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"list-interfaces"},
	Short:   "List datalink interfaces",
	Long: `List every datalink interface as "<index>: <description>".

The index is the value "drop" expects as its first argument.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runList(newProvider(cfg), cmd.OutOrStdout())
	},
}

// runList writes one line per interface, in provider order.
func runList(p link.Provider, out io.Writer) error {
	ifaces, err := p.Interfaces()
	if err != nil {
		return fmt.Errorf("failed to list interfaces: %w", err)
	}
	for _, iface := range ifaces {
		fmt.Fprintf(out, "%d: %s\n", iface.Index, iface.Description)
	}
	return nil
}
