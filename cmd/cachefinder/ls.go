package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bamsammich/cachefinder/internal/archive"
	"github.com/bamsammich/cachefinder/internal/output"
	"github.com/bamsammich/cachefinder/internal/ui"
)

func newLsCmd() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "ls <archive>",
		Short: "List the entries of an archive written by cachefinder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, compression, err := output.Open(args[0])
			if err != nil {
				return err
			}
			defer rc.Close()

			w := cmd.OutOrStdout()
			var files, bytes int64
			err = archive.List(rc, func(l archive.Listed) error {
				files++
				bytes += l.Size
				if !long {
					_, err := fmt.Fprintln(w, l.Name)
					return err
				}
				_, err := fmt.Fprintf(w, "%s  %10s  %s  %s\n",
					l.ModTime.UTC().Format("2006-01-02 15:04:05"),
					ui.FormatBytes(l.Size),
					l.Digest[:16],
					l.Name,
				)
				return err
			})
			if err != nil {
				return fmt.Errorf("list %s: %w", args[0], err)
			}
			if long {
				fmt.Fprintf(w, "%s entries, %s, compression %s\n",
					ui.FormatCount(files), ui.FormatBytes(bytes), compression)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show modification time, size and BLAKE3 digest")
	return cmd
}
