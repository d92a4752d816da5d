package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RefresherService rebuilds the ranking board on a schedule, so a server
// left running picks up a re-run of the ETL without a restart.
type RefresherService struct {
	rankings *RankingService
	logger   *logrus.Logger
	cron     *cron.Cron
	interval time.Duration

	mu        sync.Mutex
	isRunning bool
}

func NewRefresherService(rankings *RankingService, interval time.Duration, logger *logrus.Logger) *RefresherService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RefresherService{
		rankings: rankings,
		logger:   logger,
		cron:     cron.New(),
		interval: interval,
	}
}

// Start begins the scheduled rebuilds.
func (s *RefresherService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("refresher is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.interval.String())
	if _, err := s.cron.AddFunc(schedule, s.refresh); err != nil {
		return fmt.Errorf("failed to schedule refresher: %w", err)
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("interval", s.interval.String()).Info("Ranking refresher started")
	return nil
}

// Stop halts the schedule. In-flight rebuilds finish.
func (s *RefresherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	s.cron.Stop()
	s.isRunning = false
	s.logger.Info("Ranking refresher stopped")
}

func (s *RefresherService) refresh() {
	if _, err := s.rankings.Rebuild(); err != nil {
		// Keep serving the previous board rather than dropping it.
		s.logger.WithError(err).Error("Scheduled ranking rebuild failed")
	}
}
