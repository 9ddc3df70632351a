package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler drives periodic jobs from cron expressions. The jobs it runs are
// plain callables; nothing in the core depends on how or when they fire.
type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Add registers a job under a five-field cron expression.
func (s *Scheduler) Add(spec, name string, job func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("job", name).Msg("scheduled job panicked")
			}
		}()

		log.Info().Str("job", name).Msg("scheduled job starting")
		if err := job(context.Background()); err != nil {
			log.Error().Err(err).Str("job", name).Msg("scheduled job failed")
			return
		}
		log.Info().Str("job", name).Msg("scheduled job finished")
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and returns once running jobs have finished.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
