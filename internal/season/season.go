// Package season keeps the catalogue of NBA seasons. A season runs from
// November 1 to June 30 and is identified as "2024-25".
package season

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/courtside/internal/elo"
	"github.com/yourusername/courtside/internal/models"
)

// FirstYear is the start year of the oldest catalogued season
const FirstYear = 2020

// lookahead is how many seasons past the current one are catalogued
const lookahead = 2

// Season describes one NBA season
type Season struct {
	ID          string    `json:"season_id"`
	DisplayName string    `json:"display_name"`
	Start       time.Time `json:"start_date"`
	End         time.Time `json:"end_date"`
	IsCurrent   bool      `json:"is_current"`
}

// New builds the season starting in November of startYear
func New(startYear int) Season {
	end := startYear + 1
	return Season{
		ID:          fmt.Sprintf("%d-%02d", startYear, end%100),
		DisplayName: fmt.Sprintf("%d-%d NBA Season", startYear, end),
		Start:       time.Date(startYear, time.November, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(end, time.June, 30, 0, 0, 0, 0, time.UTC),
	}
}

// StartYear returns the calendar year the season begins in
func (s Season) StartYear() int {
	return s.Start.Year()
}

// Window is the Elo date window for the season. It ends at the last instant
// of June 30 so every game dated that day is inside.
func (s Season) Window() elo.DateWindow {
	return elo.DateWindow{
		Start: s.Start,
		End:   s.End.Add(24*time.Hour - time.Nanosecond),
	}
}

// Contains reports whether t falls within the season
func (s Season) Contains(t time.Time) bool {
	return s.Window().Contains(t)
}

// ParseID returns the start year encoded in an id such as "2024-25"
func ParseID(id string) (int, error) {
	parts := strings.Split(id, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: season id %q is not of the form YYYY-YY", models.ErrConfiguration, id)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: season id %q: %v", models.ErrConfiguration, id, err)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: season id %q: %v", models.ErrConfiguration, id, err)
	}
	if (start+1)%100 != end {
		return 0, fmt.Errorf("%w: season id %q does not span consecutive years", models.ErrConfiguration, id)
	}
	return start, nil
}

// baseYear is the start year of the season that has most recently begun
func baseYear(today time.Time) int {
	if today.Month() >= time.November {
		return today.Year()
	}
	return today.Year() - 1
}

// Catalogue holds every known season and tracks the current one. It is safe
// for concurrent use.
type Catalogue struct {
	mu      sync.RWMutex
	seasons map[int]Season
	current int
}

// NewCatalogue builds the seasons from FirstYear through two past the season
// that contains today.
func NewCatalogue(today time.Time) *Catalogue {
	c := &Catalogue{seasons: make(map[int]Season)}
	c.Refresh(today)
	return c
}

// Refresh adds any season that has come into range and recomputes the
// current season. It reports whether a season was added.
func (c *Catalogue) Refresh(today time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	base := baseYear(today)
	added := false
	for year := FirstYear; year <= base+lookahead; year++ {
		if _, ok := c.seasons[year]; !ok {
			c.seasons[year] = New(year)
			added = true
		}
	}

	// between seasons the most recently started one stays current
	c.current = base
	for year, s := range c.seasons {
		if s.Contains(today) {
			c.current = year
		}
	}
	return added
}

// Seasons lists the catalogue newest first
func (c *Catalogue) Seasons() []Season {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Season, 0, len(c.seasons))
	for year, s := range c.seasons {
		s.IsCurrent = year == c.current
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
	return out
}

// Current returns the current season
func (c *Catalogue) Current() Season {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.seasons[c.current]
	if !ok {
		s = New(c.current)
	}
	s.IsCurrent = true
	return s
}

// Lookup finds a season by id. An empty id selects the current season.
func (c *Catalogue) Lookup(id string) (Season, error) {
	if id == "" {
		return c.Current(), nil
	}
	year, err := ParseID(id)
	if err != nil {
		return Season{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.seasons[year]
	if !ok {
		return Season{}, fmt.Errorf("%w: season %s is not catalogued", models.ErrConfiguration, id)
	}
	s.IsCurrent = year == c.current
	return s, nil
}
