package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/tanki-rpc/tanki-rich-presence/pkg/ratings"
)

// ProfileFetcher loads the public profile of a player.
type ProfileFetcher interface {
	Fetch(ctx context.Context, username string) (ratings.Profile, error)
}

// ActivitySource produces the activity to publish on each start.
type ActivitySource interface {
	Activity(ctx context.Context) (Activity, error)
}

// ProfileSource fetches one player's profile and renders it through a Template.
type ProfileSource struct {
	fetcher  ProfileFetcher
	template *Template
	username string
	now      func() time.Time
}

// NewProfileSource validates tpl and binds it to username.
func NewProfileSource(fetcher ProfileFetcher, tpl *Template, username string) (*ProfileSource, error) {
	if tpl == nil {
		tpl = DefaultTemplate()
	}
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	return &ProfileSource{
		fetcher:  fetcher,
		template: tpl,
		username: username,
		now:      time.Now,
	}, nil
}

// Username returns the player this source describes.
func (s *ProfileSource) Username() string {
	return s.username
}

// Activity fetches the profile and renders the activity, starting now.
func (s *ProfileSource) Activity(ctx context.Context) (Activity, error) {
	profile, err := s.fetcher.Fetch(ctx, s.username)
	if err != nil {
		return Activity{}, fmt.Errorf("%w: %w", ErrProfileUnavailable, err)
	}
	return BuildActivity(s.template, profile, s.now())
}
