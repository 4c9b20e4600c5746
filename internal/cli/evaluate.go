package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/resto-menu-api/internal/menu"
	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/pricing"
	"github.com/noah-isme/resto-menu-api/internal/service"
)

type evaluation struct {
	menu.Menu
	ChannelID   string    `json:"channel_id,omitempty"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

func newEvaluateCommand(opts *globalOptions) *cobra.Command {
	var (
		snapshotPath string
		at           string
		channelID    string
		quantity     int
		noPrices     bool
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate the visible menu of a snapshot at an instant",
		Example: `  menuctl evaluate --snapshot tenant.yaml --at 2024-03-08T12:30:00+08:00 --tz Asia/Singapore
  cat tenant.json | menuctl evaluate --snapshot - --channel delivery`,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := LoadSnapshot(snapshotPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if quantity < 0 {
				return fmt.Errorf("--quantity must not be negative")
			}
			when, instant, err := opts.instant(at)
			if err != nil {
				return err
			}
			if channelID != "" {
				if _, ok := snapshot.Channel(channelID); !ok {
					return fmt.Errorf("channel %q not found in snapshot", channelID)
				}
			}
			result := opts.builder().Build(snapshot.Input(channelID, instant, quantity, !noPrices))
			return render(cmd.OutOrStdout(), opts.output, evaluation{Menu: result, ChannelID: channelID, EvaluatedAt: when})
		},
	}
	cmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "snapshot file (JSON or YAML, - for stdin)")
	cmd.Flags().StringVar(&at, "at", "", "RFC3339 instant (default now)")
	cmd.Flags().StringVar(&channelID, "channel", "", "channel ID")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "quantity for quantity-based rules")
	cmd.Flags().BoolVar(&noPrices, "no-prices", false, "skip price evaluation")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

type priceResult struct {
	MenuItemID string `json:"menu_item_id"`
	menu.PricePreview
	AppliedRule   *models.PricingRule `json:"applied_rule,omitempty"`
	MatchingRules []string            `json:"matching_rules"`
	EvaluatedAt   time.Time           `json:"evaluated_at"`
}

func newPriceCommand(opts *globalOptions) *cobra.Command {
	var (
		snapshotPath string
		itemID       string
		at           string
		quantity     int
	)
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Evaluate the effective price of one menu item",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := LoadSnapshot(snapshotPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			item, ok := snapshot.Item(itemID)
			if !ok {
				return fmt.Errorf("menu item %q not found in snapshot", itemID)
			}
			when, instant, err := opts.instant(at)
			if err != nil {
				return err
			}

			builder := opts.builder()
			rules := snapshot.Rules[itemID]
			pctx := pricing.Context{Instant: instant, Quantity: quantity}
			preview, applied := builder.PriceWithRule(item, rules, pctx)
			out := priceResult{
				MenuItemID:    item.ID,
				PricePreview:  preview,
				AppliedRule:   applied,
				MatchingRules: []string{},
				EvaluatedAt:   when,
			}
			for i := range rules {
				if builder.Evaluator().Matches(rules[i], pctx) {
					out.MatchingRules = append(out.MatchingRules, rules[i].ID)
				}
			}
			return render(cmd.OutOrStdout(), opts.output, out)
		},
	}
	cmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "snapshot file (JSON or YAML, - for stdin)")
	cmd.Flags().StringVar(&itemID, "item", "", "menu item ID")
	cmd.Flags().StringVar(&at, "at", "", "RFC3339 instant (default now)")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "order quantity")
	_ = cmd.MarkFlagRequired("snapshot")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

// Problem is a malformed record found by validate.
type Problem struct {
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

func newValidateCommand(opts *globalOptions) *cobra.Command {
	var snapshotPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report malformed schedules, pricing rules and channel hours",
		Long:  "Evaluation skips malformed records silently. validate lists them and exits non-zero when any are found.",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := LoadSnapshot(snapshotPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			problems := Validate(snapshot)
			if err := render(cmd.OutOrStdout(), opts.output, problems); err != nil {
				return err
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d malformed record(s)", len(problems))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "snapshot file (JSON or YAML, - for stdin)")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

// Validate checks every schedule, pricing rule and channel of a snapshot with
// the same rules the API enforces on write.
func Validate(snapshot *menu.Snapshot) []Problem {
	problems := []Problem{}
	for _, s := range snapshot.Schedules {
		if err := service.ValidateSlots(s.TimeSlots, s.DateSlots); err != nil {
			problems = append(problems, Problem{Kind: "schedule", ID: s.ID, Message: err.Error()})
		}
	}
	for itemID, rules := range snapshot.Rules {
		for _, rule := range rules {
			if err := pricing.Validate(rule); err != nil {
				id := rule.ID
				if id == "" {
					id = itemID
				}
				problems = append(problems, Problem{Kind: "pricing_rule", ID: id, Message: err.Error()})
			}
		}
	}
	for _, ch := range snapshot.Channels {
		if err := service.ValidateOperatingHours(ch.OperatingHours); err != nil {
			problems = append(problems, Problem{Kind: "channel", ID: ch.ID, Message: err.Error()})
		}
	}
	return problems
}
