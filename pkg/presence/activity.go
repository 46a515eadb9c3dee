package presence

import (
	"text/template"
	"time"

	"github.com/tanki-rpc/tanki-rich-presence/pkg/rank"
	"github.com/tanki-rpc/tanki-rich-presence/pkg/ratings"
)

// Activity is the rich presence status of one player.
type Activity struct {
	Details    string
	State      string
	Start      time.Time
	LargeImage string
	LargeText  string
	SmallImage string
	SmallText  string
	Buttons    []Button
}

type Button struct {
	Label string
	URL   string
}

// View is what template fields can reference.
type View struct {
	Name       string
	Score      string
	ScoreNext  string
	Rank       string
	RankNumber int
	NextRank   string
	Icon       string
	Premium    bool
}

// NewView derives the display fields of a profile.
func NewView(p ratings.Profile) View {
	return View{
		Name:       p.Name,
		Score:      rank.FormatThousands(p.Score),
		ScoreNext:  rank.FormatThousands(p.ScoreNext),
		Rank:       rank.Name(p.Rank),
		RankNumber: p.Rank,
		NextRank:   rank.Name(p.Rank + 1),
		Icon:       rank.IconKey(p.HasPremium, p.Rank),
		Premium:    p.HasPremium,
	}
}

// BuildActivity renders tpl for profile p, starting at start.
func BuildActivity(tpl *Template, p ratings.Profile, start time.Time) (Activity, error) {
	if tpl.compiled == nil {
		if err := tpl.Validate(); err != nil {
			return Activity{}, err
		}
	}
	c := tpl.compiled
	v := NewView(p)

	activity := Activity{Start: start}
	fields := []struct {
		src *template.Template
		dst *string
	}{
		{c.details, &activity.Details},
		{c.state, &activity.State},
		{c.largeImage, &activity.LargeImage},
		{c.largeText, &activity.LargeText},
		{c.smallImage, &activity.SmallImage},
		{c.smallText, &activity.SmallText},
	}
	for _, f := range fields {
		out, err := render(f.src, v)
		if err != nil {
			return Activity{}, err
		}
		*f.dst = out
	}

	for i := range c.buttonLabels {
		label, err := render(c.buttonLabels[i], v)
		if err != nil {
			return Activity{}, err
		}
		url, err := render(c.buttonURLs[i], v)
		if err != nil {
			return Activity{}, err
		}
		activity.Buttons = append(activity.Buttons, Button{Label: label, URL: url})
	}

	return activity, nil
}
