package recommender

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/culturatoken/ctk-platform/internal/domain"
)

// Weights holds the scoring weights of the recommendation algorithm.
// They should sum to 1.
type Weights struct {
	GenreMatch     float64 `mapstructure:"genre_match"`
	RiskMatch      float64 `mapstructure:"risk_match"`
	ROIPotential   float64 `mapstructure:"roi_potential"`
	FundingUrgency float64 `mapstructure:"funding_urgency"`
}

// Config holds the recommendation engine configuration
type Config struct {
	Weights Weights `mapstructure:"weights"`
	// MinScore is the threshold a show must reach to be recommended
	MinScore float64 `mapstructure:"min_score"`
	// MaxResults caps the number of returned recommendations
	MaxResults int `mapstructure:"max_results"`
}

// DefaultConfig returns the standard scoring parameters
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			GenreMatch:     0.4,
			RiskMatch:      0.3,
			ROIPotential:   0.2,
			FundingUrgency: 0.1,
		},
		MinScore:   0.6,
		MaxResults: 5,
	}
}

// riskFactors maps [user tolerance][show risk] to a compatibility factor
var riskFactors = map[domain.RiskLevel]map[domain.RiskLevel]float64{
	domain.RiskLow: {
		domain.RiskHigh:   0,
		domain.RiskMedium: 0.5,
		domain.RiskLow:    1,
	},
	domain.RiskMedium: {
		domain.RiskHigh:   0.3,
		domain.RiskMedium: 1,
		domain.RiskLow:    0.8,
	},
	domain.RiskHigh: {
		domain.RiskHigh:   1,
		domain.RiskMedium: 0.7,
		domain.RiskLow:    0.5,
	},
}

// Recommendation pairs a show with its computed score
type Recommendation struct {
	Show  domain.Show `json:"show"`
	Score float64     `json:"score"`
}

// Recommender scores and ranks shows against user preferences
type Recommender struct {
	cfg Config
}

// New creates a recommender with the given configuration
func New(cfg Config) *Recommender {
	return &Recommender{cfg: cfg}
}

// Recommend ranks the catalog against the user's preferences. Fully funded
// shows are excluded, shows below the score threshold are dropped, and the
// result is capped at MaxResults. The output is deterministic for identical
// inputs: ties order by higher ROI, then by lower funded percentage.
func (r *Recommender) Recommend(catalog []domain.Show, prefs domain.Preferences) []Recommendation {
	var recommendations []Recommendation
	for _, show := range catalog {
		if show.FullyFunded() {
			continue
		}
		score := r.Score(&show, prefs)
		if score < r.cfg.MinScore {
			continue
		}
		recommendations = append(recommendations, Recommendation{Show: show, Score: score})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		a, b := recommendations[i], recommendations[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Show.ROI != b.Show.ROI {
			return a.Show.ROI > b.Show.ROI
		}
		return a.Show.FundedPercent < b.Show.FundedPercent
	})

	if len(recommendations) > r.cfg.MaxResults {
		recommendations = recommendations[:r.cfg.MaxResults]
	}
	return recommendations
}

// Score computes the weighted score of a show for the given preferences,
// rounded to two decimals
func (r *Recommender) Score(show *domain.Show, prefs domain.Preferences) float64 {
	var score float64

	if prefs.LikesGenre(show.Genre) {
		score += r.cfg.Weights.GenreMatch
	}

	score += r.cfg.Weights.RiskMatch * riskFactors[prefs.RiskTolerance][show.RiskLevel]
	score += r.cfg.Weights.ROIPotential * normalizeROI(show.ROI, prefs.InvestmentGoal)
	score += r.cfg.Weights.FundingUrgency * (1 - show.FundedPercent/100)

	return math.Round(score*100) / 100
}

// normalizeROI maps an annual ROI percentage into [0,1] with a divisor
// depending on the investment goal: income-seeking users demand more ROI
// per point than diversifiers
func normalizeROI(roi float64, goal domain.InvestmentGoal) float64 {
	divisor := 30.0
	switch goal {
	case domain.GoalIncome:
		divisor = 20
	case domain.GoalGrowth:
		divisor = 15
	}
	return math.Min(roi/divisor, 1)
}

// Explain returns a human-readable justification for recommending a show
func Explain(show *domain.Show, prefs domain.Preferences) string {
	var reasons []string

	if prefs.LikesGenre(show.Genre) {
		reasons = append(reasons, fmt.Sprintf("matches your favorite genre (%s)", show.Genre))
	}
	if riskFactors[prefs.RiskTolerance][show.RiskLevel] > 0.7 {
		reasons = append(reasons, fmt.Sprintf("fits your risk profile (%s)", prefs.RiskTolerance))
	}
	if show.ROI > 12 && prefs.InvestmentGoal == domain.GoalIncome {
		reasons = append(reasons, fmt.Sprintf("high ROI (%.0f%%) for income generation", show.ROI))
	}
	if show.FundedPercent < 50 {
		reasons = append(reasons, fmt.Sprintf("early opportunity (%.0f%% funded)", show.FundedPercent))
	}

	if len(reasons) == 0 {
		return "recommended by the preference algorithm"
	}
	return strings.Join(reasons, ", ")
}
