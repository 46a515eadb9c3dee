package presence

import (
	"testing"
	"time"

	"github.com/tanki-rpc/tanki-rich-presence/pkg/ratings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildActivity_Default(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	profile := ratings.Profile{
		Name:       "Tanker",
		Score:      1234567,
		ScoreNext:  1500000,
		Rank:       21,
		HasPremium: true,
	}

	activity, err := BuildActivity(DefaultTemplate(), profile, start)
	require.NoError(t, err)

	assert.Equal(t, Activity{
		Details:    "Username: Tanker",
		State:      "1 234 567 / 1 500 000 XP till Colonel",
		Start:      start,
		LargeImage: "pentagon_only",
		LargeText:  "Tanki Online",
		SmallImage: "iconspremium_21",
		SmallText:  "Lieutenant Colonel",
		Buttons: []Button{
			{Label: "Play Tanki Online", URL: "https://tankionline.com/play/"},
			{Label: "Tanker Ratings", URL: "https://ratings.tankionline.com/en/user/Tanker"},
		},
	}, activity)
}

func TestBuildActivity_DefaultProfile(t *testing.T) {
	activity, err := BuildActivity(DefaultTemplate(), ratings.DefaultProfile(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, "Username: milk_Dud", activity.Details)
	assert.Equal(t, "0 / 100 XP till Private", activity.State)
	assert.Equal(t, "iconsnormal_01", activity.SmallImage)
	assert.Equal(t, "Recruit", activity.SmallText)
}

func TestBuildActivity_LegendRanks(t *testing.T) {
	tests := []struct {
		rank      int
		smallText string
		nextRank  string
		icon      string
	}{
		{30, "Generalissimo", "Legend 2", "iconsnormal_30"},
		{31, "Legend 2", "Legend 3", "iconsnormal_31"},
		{45, "Legend 16", "Legend 17", "iconsnormal_31"},
	}

	for _, tt := range tests {
		profile := ratings.Profile{Name: "a", Score: 10, ScoreNext: 20, Rank: tt.rank}
		activity, err := BuildActivity(DefaultTemplate(), profile, time.Now())
		require.NoError(t, err)

		assert.Equal(t, tt.smallText, activity.SmallText, "rank %d", tt.rank)
		assert.Equal(t, "10 / 20 XP till "+tt.nextRank, activity.State, "rank %d", tt.rank)
		assert.Equal(t, tt.icon, activity.SmallImage, "rank %d", tt.rank)
	}
}

func TestBuildActivity_UnknownField(t *testing.T) {
	tpl := DefaultTemplate()
	tpl.Details = "{{.Nickname}}"

	_, err := BuildActivity(tpl, ratings.DefaultProfile(), time.Now())
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}
