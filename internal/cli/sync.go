package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/queue"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/remote"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/state"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/store"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/syncer"
)

// NewSyncCommand creates the sync command: one-shot pull + drain against
// the remote API using the persisted local state.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run a one-shot pull and drain against the remote API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			log, err := newLogger(rootOpts)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer log.Sync() //nolint:errcheck // stderr sync failure is unactionable

			s, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			snap, _, err := s.LoadSnapshot(ctx)
			if err != nil {
				return err
			}
			actions, err := s.LoadPendingActions(ctx)
			if err != nil {
				return err
			}

			pending := queue.NewFrom(actions)
			rc := remote.NewHTTPClient(cfg.RemoteBaseURL, cfg.RequestTimeout)

			container := state.New(state.Params{
				Log:       log,
				Remote:    rc,
				Persister: s,
				Pending:   pending,
			})
			container.Restore(snap)
			container.SetOnline(true)

			rec := syncer.New(log, container, pending, rc)
			if err := rec.SyncNow(ctx); err != nil {
				return fmt.Errorf("sync: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "synced; %d actions still pending\n", pending.Len())
			return nil
		},
	}
}
