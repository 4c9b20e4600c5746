// Package cli implements menuctl, an offline companion to the menu API.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/resto-menu-api/internal/menu"
	"github.com/noah-isme/resto-menu-api/internal/service"
	"github.com/noah-isme/resto-menu-api/internal/timewindow"
	"github.com/noah-isme/resto-menu-api/pkg/config"
)

type globalOptions struct {
	policy   string
	timezone string
	output   string
	upcoming int
	verbose  bool
}

func (o *globalOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func (o *globalOptions) builder() *menu.Builder {
	return service.NewMenuBuilder(config.EngineConfig{
		MidnightDayPolicy:      o.policy,
		UpcomingDefaultMinutes: o.upcoming,
	}, nil, o.logger())
}

// instant resolves --at in the --tz location.
func (o *globalOptions) instant(at string) (time.Time, timewindow.Instant, error) {
	loc := time.UTC
	if o.timezone != "" {
		l, err := time.LoadLocation(o.timezone)
		if err != nil {
			return time.Time{}, timewindow.Instant{}, fmt.Errorf("invalid timezone %q: %w", o.timezone, err)
		}
		loc = l
	}
	when := time.Now()
	if at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return time.Time{}, timewindow.Instant{}, fmt.Errorf("--at must be RFC3339: %w", err)
		}
		when = t
	}
	return when.In(loc), timewindow.InstantOf(when, loc), nil
}

// NewRootCommand builds the menuctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "menuctl",
		Short:         "Evaluate menu schedules and pricing rules",
		Long:          `menuctl evaluates tenant snapshots offline, applies database migrations and issues tenant tokens for the menu API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.policy, "midnight-policy", string(timewindow.DayPolicyStartDay), "day a midnight-crossing window belongs to after midnight (start_day or current_day)")
	flags.StringVar(&opts.timezone, "tz", "UTC", "IANA timezone used to evaluate --at")
	flags.StringVarP(&opts.output, "output", "o", "json", "output format (json or yaml)")
	flags.IntVar(&opts.upcoming, "upcoming-minutes", menu.DefaultUpcomingMinutes, "default look-ahead for upcoming items")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log skipped records")

	root.AddCommand(
		newEvaluateCommand(opts),
		newPriceCommand(opts),
		newValidateCommand(opts),
		newMigrateCommand(opts),
		newTokenCommand(opts),
	)
	return root
}
