package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nimblechat/chat-viewer-api/chatstore"
)

// Scheduler handles periodic background jobs for the viewer session.
// Its only job today is the attachment sweep: uploads live in process
// memory, so stale references must be released or they stay pinned until
// the process exits.
type Scheduler struct {
	cron     *cron.Cron
	Registry *chatstore.AttachmentRegistry
}

// NewScheduler creates a new scheduler instance
func NewScheduler(registry *chatstore.AttachmentRegistry) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		Registry: registry,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	_, err := s.cron.AddFunc("@every 1m", s.sweepAttachments)
	if err != nil {
		zap.S().Errorw("failed to register attachment sweep job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Attachment janitor started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Attachment janitor stopped")
}

func (s *Scheduler) sweepAttachments() {
	s.Registry.Sweep(time.Now())
}
