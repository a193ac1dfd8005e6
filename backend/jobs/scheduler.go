package jobs

import (
	"log"
	"time"

	"flashlingo/backend/models"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"
)

// Scheduler runs the periodic maintenance tasks.
type Scheduler struct {
	scheduler *gocron.Scheduler
	db        *gorm.DB
	logger    *log.Logger
}

func New(db *gorm.DB, logger *log.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		db:        db,
		logger:    logger,
	}
}

// Start schedules the maintenance jobs and runs them in the background.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Day().At("03:00").Do(s.purgeExpiredShareTokens)
	s.scheduler.StartAsync()
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// purgeExpiredShareTokens clears share tokens whose expiry has passed so the
// unique token index does not accumulate dead entries.
func (s *Scheduler) purgeExpiredShareTokens() {
	result := s.db.Model(&models.Attempt{}).
		Where("share_expires_at IS NOT NULL AND share_expires_at <= ?", time.Now()).
		Updates(map[string]interface{}{
			"share_token":      nil,
			"share_expires_at": nil,
		})

	if result.Error != nil {
		s.logger.Printf("share token cleanup failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		s.logger.Printf("cleared %d expired share tokens", result.RowsAffected)
	}
}
