package campusmap

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"bcplughub/models"
)

const (
	minIntensity     = 0.2
	maxIntensity     = 1.0
	fallbackCapacity = 50
	DefaultWindow    = 24 * time.Hour
	MaxWindow        = 14 * 24 * time.Hour
)

// HeatPoint is one weighted point on the heatmap.
type HeatPoint struct {
	EventID   string  `json:"event_id"`
	Location  string  `json:"location"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Intensity float64 `json:"intensity"`
}

// LocationGroup is the marker for one building and its events.
type LocationGroup struct {
	Location
	Events []models.Event `json:"events"`
}

// EventSource is satisfied by the event repository.
type EventSource interface {
	ListPublicUpcomingBetween(from, to time.Time) ([]models.Event, error)
}

// Service answers map queries over upcoming public events.
type Service struct {
	Events EventSource
	Now    func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// FilterWindow keeps events with now <= date <= now+window.
func FilterWindow(events []models.Event, now time.Time, window time.Duration) []models.Event {
	end := now.Add(window)
	out := []models.Event{}
	for _, e := range events {
		if e.Date.IsZero() {
			continue
		}
		if e.Date.Before(now) || e.Date.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Intensity is RSVPs over capacity clamped to [0.2, 1.0]; capacity 0 counts as 50.
func Intensity(rsvpCount, maxCapacity int) float64 {
	capacity := maxCapacity
	if capacity <= 0 {
		capacity = fallbackCapacity
	}
	v := float64(rsvpCount) / float64(capacity)
	return math.Max(minIntensity, math.Min(maxIntensity, v))
}

// ExactMatch finds a catalogue entry whose name equals location, ignoring case.
func ExactMatch(location string) (Location, bool) {
	loc := strings.TrimSpace(location)
	for _, l := range Locations {
		if strings.EqualFold(l.Name, loc) {
			return l, true
		}
	}
	return Location{}, false
}

// ContainingMatch finds the first catalogue entry whose name appears in location.
func ContainingMatch(location string) (Location, bool) {
	lower := strings.ToLower(location)
	for _, l := range Locations {
		if strings.Contains(lower, strings.ToLower(l.Name)) {
			return l, true
		}
	}
	return Location{}, false
}

// HeatPoints builds one point per event held at an exactly named building.
func HeatPoints(events []models.Event) []HeatPoint {
	points := []HeatPoint{}
	for _, e := range events {
		loc, ok := ExactMatch(e.Location)
		if !ok {
			continue
		}
		points = append(points, HeatPoint{
			EventID:   e.ID,
			Location:  loc.Name,
			Lat:       loc.Lat,
			Lng:       loc.Lng,
			Intensity: Intensity(e.RSVPCount, e.MaxCapacity),
		})
	}
	return points
}

// GroupByLocation groups events under the building their location mentions,
// in catalogue order. Unmatched events are dropped.
func GroupByLocation(events []models.Event) []LocationGroup {
	byName := map[string][]models.Event{}
	for _, e := range events {
		loc, ok := ContainingMatch(e.Location)
		if !ok {
			continue
		}
		byName[loc.Name] = append(byName[loc.Name], e)
	}
	groups := []LocationGroup{}
	for _, l := range Locations {
		if evs, ok := byName[l.Name]; ok {
			groups = append(groups, LocationGroup{Location: l, Events: evs})
		}
	}
	return groups
}

// ParseWindow reads an hours query value, defaulting to 24h.
func ParseWindow(hours string) (time.Duration, error) {
	if hours == "" {
		return DefaultWindow, nil
	}
	h, err := strconv.ParseFloat(hours, 64)
	if err != nil || h <= 0 {
		return 0, fmt.Errorf("hours must be a positive number")
	}
	window := time.Duration(h * float64(time.Hour))
	if window > MaxWindow {
		window = MaxWindow
	}
	return window, nil
}

// Upcoming returns public events inside the window.
func (s *Service) Upcoming(window time.Duration) ([]models.Event, error) {
	now := s.now()
	events, err := s.Events.ListPublicUpcomingBetween(now, now.Add(window))
	if err != nil {
		return nil, err
	}
	return FilterWindow(events, now, window), nil
}

func (s *Service) Heatmap(window time.Duration) ([]HeatPoint, error) {
	events, err := s.Upcoming(window)
	if err != nil {
		return nil, err
	}
	return HeatPoints(events), nil
}

func (s *Service) Markers(window time.Duration) ([]LocationGroup, error) {
	events, err := s.Upcoming(window)
	if err != nil {
		return nil, err
	}
	return GroupByLocation(events), nil
}
