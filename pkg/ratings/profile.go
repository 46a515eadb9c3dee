package ratings

// DefaultUsername is shown when the ratings API does not answer with a profile.
const DefaultUsername = "milk_Dud"

// Profile holds the public statistics of one player.
type Profile struct {
	Name       string `json:"name"`
	Score      int    `json:"score"`
	ScoreNext  int    `json:"scoreNext"`
	Rank       int    `json:"rank"`
	HasPremium bool   `json:"hasPremium"`
}

// DefaultProfile returns the placeholder used when the API answers with a non-2xx status.
func DefaultProfile() Profile {
	return Profile{
		Name:       DefaultUsername,
		Score:      0,
		ScoreNext:  100,
		Rank:       1,
		HasPremium: false,
	}
}

type profileEnvelope struct {
	Response *Profile `json:"response"`
}
