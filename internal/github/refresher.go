package github

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// usernameSource lists the github usernames referenced by stored profiles.
type usernameSource interface {
	GithubUsernames() ([]string, error)
}

// Refresher periodically re-fetches cached repo listings for every github
// username referenced by a profile.
type Refresher struct {
	svc      *Service
	profiles usernameSource
	cron     *cron.Cron
}

// NewRefresher creates a Refresher.
func NewRefresher(svc *Service, profiles usernameSource) *Refresher {
	return &Refresher{
		svc:      svc,
		profiles: profiles,
		cron:     cron.New(),
	}
}

// Start schedules the refresh job and begins running it in the background.
func (r *Refresher) Start() error {
	if _, err := r.cron.AddFunc("@every 30m", r.refreshAll); err != nil {
		return err
	}
	r.cron.Start()
	log.Info().Msg("Starting background github repo refresher...")
	return nil
}

// Stop halts the refresher and waits for a running job to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Refresher) refreshAll() {
	names, err := r.profiles.GithubUsernames()
	if err != nil {
		log.Error().Err(err).Msg("Refresher: failed to list github usernames")
		return
	}

	for _, name := range names {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := r.svc.Refresh(ctx, name); err != nil {
			log.Warn().Err(err).Str("username", name).Msg("Refresher: failed to refresh repos")
		}
		cancel()
	}
}
