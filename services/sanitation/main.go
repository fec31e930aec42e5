package sanitation

import (
	"time"

	"github.com/go-co-op/gocron"

	"genotyper/api/log"
	"genotyper/api/models"
	"genotyper/api/services/cache"
)

type (
	SanitationService struct {
		Initialized bool
		Cache       *cache.ResultCache
		Config      *models.Config

		scheduler *gocron.Scheduler
	}
)

func NewSanitationService(rc *cache.ResultCache, cfg *models.Config) *SanitationService {
	ss := &SanitationService{
		Initialized: false,
		Cache:       rc,
		Config:      cfg,
	}

	ss.Init()

	return ss
}

func (ss *SanitationService) Init() {
	if ss.Initialized {
		return
	}

	interval := ss.Config.Cache.PurgeIntervalMinute
	if interval < 1 {
		interval = 1
	}

	// periodically drop expired alignment/haplotype results so
	// the cache does not grow with every distinct request
	ss.scheduler = gocron.NewScheduler(time.UTC)
	if _, err := ss.scheduler.Every(interval).Minutes().Do(ss.PurgeExpired); err != nil {
		log.Scheduler.Errorf("Failed to schedule cache purge : %v", err)
		return
	}
	ss.scheduler.StartAsync()

	ss.Initialized = true
	log.Scheduler.Infof("Sanitation Service Initialized, purging every %d minute(s)", interval)
}

// PurgeExpired runs one sanitation pass
func (ss *SanitationService) PurgeExpired() int {
	removed := ss.Cache.Purge()
	log.Scheduler.WithField("removed", removed).Debug("Purged expired cache entries")
	return removed
}

func (ss *SanitationService) Stop() {
	if ss.scheduler != nil {
		ss.scheduler.Stop()
	}
	ss.Initialized = false
}
