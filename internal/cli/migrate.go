package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/store"
)

// NewMigrateCommand creates the migrate command: load the persisted
// snapshot (which upgrades it to the current shape) and write it back,
// so the on-disk body is current before the app next starts.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade the persisted snapshot to the current shape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			s, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer s.Close()

			ctx := context.Background()
			snap, found, err := s.LoadSnapshot(ctx)
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintln(cmd.OutOrStdout(), "no snapshot to migrate")
				return nil
			}

			if err := s.SaveSnapshot(ctx, snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "snapshot migrated to version %d\n", store.SnapshotVersion)
			return nil
		},
	}
}
