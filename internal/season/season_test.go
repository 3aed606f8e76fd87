package season

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	s := New(2024)

	assert.Equal(t, "2024-25", s.ID)
	assert.Equal(t, "2024-2025 NBA Season", s.DisplayName)
	assert.Equal(t, time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC), s.Start)
	assert.Equal(t, time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC), s.End)
	assert.Equal(t, 2024, s.StartYear())
	assert.Equal(t, "2099-00", New(2099).ID)
}

func TestWindowIncludesLastDay(t *testing.T) {
	s := New(2024)
	w := s.Window()

	assert.True(t, w.Contains(time.Date(2025, time.June, 30, 23, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, s.Contains(s.Start))
	assert.False(t, s.Contains(date(2024, time.October, 31)))
}

func TestParseID(t *testing.T) {
	year, err := ParseID("2023-24")
	require.NoError(t, err)
	assert.Equal(t, 2023, year)

	year, err = ParseID("2099-00")
	require.NoError(t, err)
	assert.Equal(t, 2099, year)

	for _, bad := range []string{"", "2023", "2023-2024", "2023-25", "abcd-ef", "23-24"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, models.ErrConfiguration, "id %q", bad)
	}
}

func TestCatalogueDuringSeason(t *testing.T) {
	c := NewCatalogue(date(2025, time.February, 10))

	seasons := c.Seasons()
	require.Len(t, seasons, 7)
	assert.Equal(t, "2026-27", seasons[0].ID)
	assert.Equal(t, "2020-21", seasons[len(seasons)-1].ID)

	current := c.Current()
	assert.Equal(t, "2024-25", current.ID)
	assert.True(t, current.IsCurrent)

	currentCount := 0
	for _, s := range seasons {
		if s.IsCurrent {
			currentCount++
			assert.Equal(t, "2024-25", s.ID)
		}
	}
	assert.Equal(t, 1, currentCount)
}

func TestCatalogueOffSeason(t *testing.T) {
	c := NewCatalogue(date(2025, time.August, 15))
	assert.Equal(t, "2024-25", c.Current().ID)
}

func TestRefreshAddsSeasonInNovember(t *testing.T) {
	c := NewCatalogue(date(2025, time.October, 20))
	require.Len(t, c.Seasons(), 7)

	assert.False(t, c.Refresh(date(2025, time.October, 31)))
	assert.True(t, c.Refresh(date(2025, time.November, 1)))

	assert.Len(t, c.Seasons(), 8)
	assert.Equal(t, "2025-26", c.Current().ID)
	assert.Equal(t, "2027-28", c.Seasons()[0].ID)
}

func TestLookup(t *testing.T) {
	c := NewCatalogue(date(2025, time.March, 1))

	s, err := c.Lookup("2022-23")
	require.NoError(t, err)
	assert.Equal(t, 2022, s.StartYear())
	assert.False(t, s.IsCurrent)

	s, err = c.Lookup("")
	require.NoError(t, err)
	assert.Equal(t, "2024-25", s.ID)

	_, err = c.Lookup("2015-16")
	assert.ErrorIs(t, err, models.ErrConfiguration)
}
