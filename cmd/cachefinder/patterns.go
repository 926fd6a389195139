package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bamsammich/cachefinder/internal/pattern"
)

func newPatternsCmd() *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Print the built-in pattern sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			found := false
			for _, d := range pattern.Defaults() {
				if set != "" && d.Set != set {
					continue
				}
				found = true
				fmt.Fprintf(w, "[%s]\n", d.Set)
				for _, p := range d.Patterns {
					fmt.Fprintf(w, "  %s\n", p)
				}
			}
			if !found {
				return fmt.Errorf("unknown pattern set %q", set)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&set, "set", "", "print only the named set (e.g. cache-dir, cache-file)")
	return cmd
}
