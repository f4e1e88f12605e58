package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trustscore/pkg/cache"
	"github.com/matzehuels/trustscore/pkg/config"
)

// snapshotCommand manages the metadata snapshot directory.
func (c *CLI) snapshotCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage recorded metadata snapshots",
	}
	cmd.PersistentFlags().StringVar(&dir, "snapshot-dir", "", "snapshot directory (default "+config.SnapshotDir()+")")

	resolve := func() string {
		if dir != "" {
			return dir
		}
		if d := c.settings().SnapshotDir; d != "" {
			return d
		}
		return config.SnapshotDir()
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the snapshot directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), resolve())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := resolve()
			if _, err := os.Stat(path); os.IsNotExist(err) {
				printInfo(out, "No snapshots")
				return nil
			}
			fc, err := cache.NewFileCache(path)
			if err != nil {
				return fmt.Errorf("open snapshot dir: %w", err)
			}
			n, err := fc.Clear()
			if err != nil {
				return err
			}
			printSuccess(out, "Cleared %d snapshots", n)
			printDetail(out, "Directory: %s", fc.Dir())
			return nil
		},
	})

	return cmd
}
