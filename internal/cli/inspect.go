package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/store"
)

// NewInspectCommand creates the inspect command: dump the persisted
// snapshot and pending queue as JSON.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Dump the persisted snapshot and pending queue",
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
			pending, err := s.LoadPendingActions(ctx)
			if err != nil {
				return err
			}

			out := map[string]any{
				"found":    found,
				"snapshot": snap,
				"pending":  pending,
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal output: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
