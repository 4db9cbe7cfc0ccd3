package usecase

import (
	"log"

	"aura-backend/internal/source/repository"

	"github.com/robfig/cron/v3"
)

// Scheduler kicks off periodic background syncs for every user with an
// active source. Sources already mid-sync are skipped by the fan-out.
type Scheduler struct {
	cron       *cron.Cron
	syncUC     SyncUsecase
	sourceRepo repository.DataSourceRepository
	spec       string
}

func NewScheduler(syncUC SyncUsecase, sourceRepo repository.DataSourceRepository, spec string) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		syncUC:     syncUC,
		sourceRepo: sourceRepo,
		spec:       spec,
	}
}

// Start registers the sweep and launches the cron loop. An empty spec
// disables auto-sync.
func (s *Scheduler) Start() error {
	if s.spec == "" {
		log.Printf("[Scheduler] auto-sync disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[Scheduler] auto-sync scheduled: %s", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) sweep() {
	userIDs, err := s.sourceRepo.ListUserIDs()
	if err != nil {
		log.Printf("[Scheduler] sweep aborted: %v", err)
		return
	}

	for _, userID := range userIDs {
		started, err := s.syncUC.StartSyncAll(userID)
		if err != nil {
			log.Printf("[Scheduler] auto-sync for %s: %v", userID, err)
			continue
		}
		if len(started) > 0 {
			log.Printf("[Scheduler] auto-sync started %d sources for %s", len(started), userID)
		}
	}
}
