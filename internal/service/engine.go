package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/resto-menu-api/internal/menu"
	"github.com/noah-isme/resto-menu-api/internal/pricing"
	"github.com/noah-isme/resto-menu-api/internal/resolver"
	"github.com/noah-isme/resto-menu-api/internal/timewindow"
	"github.com/noah-isme/resto-menu-api/pkg/config"
)

// NewMenuBuilder assembles the resolver and evaluator from engine settings.
// Skipped malformed records are counted on metrics when it is non-nil.
func NewMenuBuilder(cfg config.EngineConfig, metrics *MetricsService, logger *zap.Logger) *menu.Builder {
	policy := timewindow.ParseDayPolicy(cfg.MidnightDayPolicy)
	return menu.NewBuilder(
		resolver.New(policy, logger, resolver.WithSkipHook(metrics.RecordSkipped)),
		pricing.NewEvaluator(policy, logger, pricing.WithSkipHook(metrics.RecordSkipped)),
		menu.WithUpcomingDefault(cfg.UpcomingDefaultMinutes),
	)
}
