// Package jobs contains the scheduled jobs of the registry.
package jobs

import (
	"context"

	"github.com/alem-hub/course-registry/internal/application/command"
	"github.com/alem-hub/course-registry/pkg/logger"
)

// CompleteEnrollmentsName is the scheduler name of CompleteEnrollmentsJob.
const CompleteEnrollmentsName = "complete_enrollments"

// Completer runs the complete-finished-enrollments command.
type Completer interface {
	Handle(ctx context.Context) (*command.CompleteEnrollmentsResult, error)
}

// CompleteEnrollmentsJob marks enrollments of finished courses as completed.
type CompleteEnrollmentsJob struct {
	completer Completer
	log       *logger.Logger
}

// NewCompleteEnrollmentsJob creates the job.
func NewCompleteEnrollmentsJob(completer Completer, log *logger.Logger) *CompleteEnrollmentsJob {
	if log == nil {
		log = logger.Nop()
	}
	return &CompleteEnrollmentsJob{completer: completer, log: log.With(logger.Component(CompleteEnrollmentsName))}
}

// Name implements scheduler.Job.
func (j *CompleteEnrollmentsJob) Name() string { return CompleteEnrollmentsName }

// Run implements scheduler.Job.
func (j *CompleteEnrollmentsJob) Run(ctx context.Context) error {
	result, err := j.completer.Handle(ctx)
	if err != nil {
		return err
	}
	if n := len(result.Completed); n > 0 {
		j.log.Info("enrollments completed", logger.Records(n))
	}
	return nil
}
