package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"resourced/internal/manager"
)

// housekeep periodically samples host memory and runs an eviction pass when
// the used fraction crosses threshold. The manager itself never self-evicts;
// this monitor is the external trigger.
func housekeep(ctx context.Context, mgr *manager.Manager, stats manager.StatsProvider, interval time.Duration, threshold float64, logger zerolog.Logger) {
	if threshold <= 0 {
		threshold = 0.8
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		st := stats.CurrentStats()
		if st.UsedFraction <= threshold {
			continue
		}
		if n := mgr.Optimize(); n > 0 {
			logger.Info().
				Float64("used_fraction", st.UsedFraction).
				Int("unloaded", n).
				Msg("memory pressure eviction")
		}
	}
}
