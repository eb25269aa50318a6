package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/aggregate"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/store"
)

// NewStatsCommand creates the stats command: print totals, the scaled
// threshold table, and unlocked tiers from the persisted state.
//
// Numbers are computed from the persisted today-scoped collections, so
// they reflect what the app would show before its next pull.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print star totals and constellation progress",
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

			snap, found, err := s.LoadSnapshot(context.Background())
			if err != nil {
				return err
			}
			if !found || snap.Family == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no local family state")
				return nil
			}

			total := aggregate.TotalStars(snap.TodayRewards)
			thresholds := aggregate.ScaledThresholds(snap.Members)
			unlocked := aggregate.UnlockedTiers(total, thresholds)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "family:     %s (%d members)\n", snap.Family.Name, len(snap.Members))
			fmt.Fprintf(out, "stars:      %d\n", total)
			fmt.Fprintf(out, "thresholds: %v\n", thresholds)
			fmt.Fprintf(out, "unlocked:   %d/%d constellations\n", unlocked, len(thresholds))

			for _, m := range snap.Members {
				fmt.Fprintf(out, "  %-16s %s  %d stars\n",
					m.Name, m.Type, aggregate.MemberStars(snap.TodayRewards, m.ID))
			}
			return nil
		},
	}
}
