package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

var scheduler *gocron.Scheduler

// Initialize creates and starts the scheduler
func Initialize() {
	scheduler = gocron.NewScheduler(time.Local)
	scheduler.StartAsync()
}

// ScheduleTokenSweep runs sweep at the given cadence to reclaim expired
// whitelist/blacklist entries from the in-memory store.
func ScheduleTokenSweep(intervalMinutes int, sweep func()) {
	if intervalMinutes <= 0 {
		intervalMinutes = 10
	}

	_, err := scheduler.Every(intervalMinutes).Minutes().Do(sweep)
	if err != nil {
		log.Error().Err(err).Msg("Failed to schedule token sweep")
		return
	}

	log.Info().Int("interval_minutes", intervalMinutes).Msg("Token sweep scheduled")
}

// Stop gracefully shuts down the scheduler
func Stop() {
	if scheduler != nil {
		scheduler.Stop()
	}
}
