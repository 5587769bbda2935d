package scheduler

import (
	"time"

	"github.com/rs/zerolog/log"

	"potholemap_server/storage"
)

// StartRetention deletes data older than the given number of days, once at
// startup and then daily. A zero or negative value disables it; the admin
// clear-old-data endpoint remains available either way.
func StartRetention(stats *storage.StatsStore, days int) {
	if days <= 0 {
		return
	}

	run := func() {
		cutoff := time.Now().AddDate(0, 0, -days)
		deleted, err := stats.ClearOlderThan(cutoff)
		if err != nil {
			log.Error().Err(err).Msg("retention cleanup failed")
			return
		}
		log.Info().Interface("deleted", deleted).Int("days", days).Msg("retention cleanup completed")
	}

	go func() {
		run()
		ticker := time.NewTicker(24 * time.Hour)
		for range ticker.C {
			run()
		}
	}()
}
