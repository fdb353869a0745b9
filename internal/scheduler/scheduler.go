package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/wordbook/internal/logger"
	"github.com/example/wordbook/internal/vocabulary"
)

// runTimeout bounds one audit run.
const runTimeout = 10 * time.Minute

// Auditor re-checks stored pinyin.
type Auditor interface {
	AuditPhonetics(ctx context.Context, fix bool) (*vocabulary.AuditReport, error)
}

// Reporter is told about audit runs that found mismatches.
type Reporter interface {
	ReportAudit(ctx context.Context, report *vocabulary.AuditReport) error
}

// Scheduler runs the periodic phonetic audit outside the request path
type Scheduler struct {
	scheduler *gocron.Scheduler
	auditor   Auditor
	reporter  Reporter
	every     int
	log       *logger.Logger
}

// New creates a scheduler running the audit every given number of hours.
// reporter may be nil.
func New(auditor Auditor, reporter Reporter, everyHours int, log *logger.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		auditor:   auditor,
		reporter:  reporter,
		every:     everyHours,
		log:       log.With("component", "scheduler"),
	}
}

// Start schedules the audit; the first run happens after one interval.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.every).Hours().WaitForSchedule().Do(s.RunAudit); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.log.Info("phonetic audit scheduled", "every_hours", s.every)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunAudit performs one fixing audit run and reports mismatches.
func (s *Scheduler) RunAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	report, err := s.auditor.AuditPhonetics(ctx, true)
	if err != nil {
		s.log.Error("phonetic audit failed", "error", err)
		return
	}
	if s.reporter != nil {
		if err := s.reporter.ReportAudit(ctx, report); err != nil {
			s.log.Warn("audit report not delivered", "error", err)
		}
	}
}
