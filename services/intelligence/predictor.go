package ai

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"bcplughub/models"
	"bcplughub/utils"
)

// Factor names, in tie-break order.
const (
	FactorTiming          = "timing"
	FactorLocation        = "location"
	FactorCurrentInterest = "current_interest"
	FactorOrganization    = "organization"
	FactorPresentation    = "presentation"
)

var factorOrder = []string{
	FactorTiming,
	FactorLocation,
	FactorCurrentInterest,
	FactorOrganization,
	FactorPresentation,
}

var factorWeights = map[string]float64{
	FactorTiming:          0.25,
	FactorLocation:        0.20,
	FactorCurrentInterest: 0.30,
	FactorOrganization:    0.15,
	FactorPresentation:    0.10,
}

type scoredKey struct {
	key   string
	score float64
}

// Matched by substring, first hit wins.
var popularLocations = []scoredKey{
	{"gabelli hall", 0.9},
	{"stayer hall", 0.85},
	{"90 st. thomas more", 0.8},
	{"walsh hall", 0.85},
	{"ignacio hall", 0.75},
	{"the mods", 0.7},
	{"rubenstein hall", 0.75},
	{"voute hall", 0.7},
	{"welch hall", 0.65},
	{"roncalli hall", 0.65},
}

var popularClubs = []scoredKey{
	{"student government", 0.9},
	{"asian caucus", 0.85},
	{"acapella", 0.85},
	{"comedy club", 0.8},
}

// Predictor scores events on fixed heuristics. Times are read in Location.
type Predictor struct {
	Location *time.Location
}

func (p Predictor) loc() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// TimeScore favours weekends and evenings. Unknown dates score 0.5.
func (p Predictor) TimeScore(date string) float64 {
	t, err := utils.ParseEventTime(date, p.loc())
	if err != nil {
		return 0.5
	}
	return p.timeScoreAt(t)
}

func (p Predictor) timeScoreAt(t time.Time) float64 {
	t = t.In(p.loc())
	score := 0.0
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		score += 0.25
	}
	switch h := t.Hour(); {
	case h >= 19 && h <= 23:
		score += 0.3
	case h >= 17:
		score += 0.2
	case h >= 12:
		score += 0.1
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}

func LocationScore(location string) float64 {
	lower := strings.ToLower(location)
	for _, l := range popularLocations {
		if strings.Contains(lower, l.key) {
			return l.score
		}
	}
	return 0.5
}

// CapacityScore peaks between 60% and 80% utilisation.
func CapacityScore(rsvpCount, maxCapacity int) float64 {
	if maxCapacity == 0 {
		return 0.5
	}
	u := float64(rsvpCount) / float64(maxCapacity)
	switch {
	case u >= 0.6 && u <= 0.8:
		return 1.0
	case u >= 0.4 && u < 0.6:
		return 0.8
	case u >= 0.3 && u < 0.4:
		return 0.6
	case u > 0.8 && u <= 0.95:
		return 0.7
	case u > 0.95:
		return 0.5
	default:
		return 0.3
	}
}

func ClubScore(affiliated bool, clubName string) float64 {
	if !affiliated {
		return 0.5
	}
	lower := strings.ToLower(clubName)
	if lower != "" {
		for _, c := range popularClubs {
			if strings.Contains(lower, c.key) {
				return c.score
			}
		}
	}
	return 0.7
}

func VibeScore(emojiVibe []string) float64 {
	switch n := len(emojiVibe); {
	case n == 0:
		return 0.5
	case n >= 3:
		return 0.8
	case n == 2:
		return 0.7
	default:
		return 0.6
	}
}

// Predict scores an event submitted by a client.
func (p Predictor) Predict(e models.InsightEvent) models.SuccessPrediction {
	factors := map[string]float64{
		FactorTiming:          p.TimeScore(e.Date),
		FactorLocation:        LocationScore(e.Location),
		FactorCurrentInterest: CapacityScore(e.RSVPCount, e.MaxCapacity),
		FactorOrganization:    ClubScore(e.ClubAffiliated, e.ClubName),
		FactorPresentation:    VibeScore(e.EmojiVibe),
	}
	return buildPrediction(e.Identifier(), e.FunctionName, factors)
}

// PredictEvent scores a stored event.
func (p Predictor) PredictEvent(e models.Event) models.SuccessPrediction {
	timing := 0.5
	if !e.Date.IsZero() {
		timing = p.timeScoreAt(e.Date)
	}
	factors := map[string]float64{
		FactorTiming:          timing,
		FactorLocation:        LocationScore(e.Location),
		FactorCurrentInterest: CapacityScore(e.RSVPCount, e.MaxCapacity),
		FactorOrganization:    ClubScore(e.ClubAffiliated, e.ClubName),
		FactorPresentation:    VibeScore(e.EmojiVibe),
	}
	return buildPrediction(e.ID, e.FunctionName, factors)
}

func buildPrediction(id, name string, factors map[string]float64) models.SuccessPrediction {
	weighted := 0.0
	for _, f := range factorOrder {
		weighted += factors[f] * factorWeights[f]
	}
	score := int(weighted * 100)

	ranked := make([]scoredKey, 0, len(factorOrder))
	for _, f := range factorOrder {
		ranked = append(ranked, scoredKey{f, factors[f]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	return models.SuccessPrediction{
		EventID:   id,
		EventName: name,
		Score:     score,
		Reason:    reasonFor(score, ranked),
		Factors:   factors,
	}
}

func label(f string) string {
	return strings.ReplaceAll(f, "_", " ")
}

func reasonFor(score int, ranked []scoredKey) string {
	top := label(ranked[0].key)
	weak := label(ranked[len(ranked)-1].key)
	switch {
	case score >= 80:
		return fmt.Sprintf("Strong %s and good overall setup", top)
	case score >= 60:
		return fmt.Sprintf("Good %s, but %s could be improved", top, weak)
	default:
		return fmt.Sprintf("Consider improving %s and %s", weak, label(ranked[len(ranked)-2].key))
	}
}

// SortPredictions orders predictions by score, highest first.
func SortPredictions(ps []models.SuccessPrediction) {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Score > ps[j].Score })
}
