package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/courtside/internal/models"
)

func TestDefaultDirectory(t *testing.T) {
	d := Default()
	teams := d.Teams()

	assert.Len(t, teams, 30)
	assert.Equal(t, "Atlanta Hawks", teams[0].Name)

	east := 0
	for _, team := range teams {
		if team.Conference == Eastern {
			east++
		}
	}
	assert.Equal(t, 15, east)

	okc, ok := d.Lookup("Oklahoma City Thunder")
	assert.True(t, ok)
	assert.Equal(t, Western, okc.Conference)
	assert.Equal(t, "Northwest", okc.Division)
}

func TestConferenceLookup(t *testing.T) {
	d := Default()
	assert.Equal(t, Eastern, d.Conference("Indiana Pacers"))
	assert.Equal(t, Western, d.Conference("LA Clippers"))
	assert.Equal(t, Unknown, d.Conference("Team Giannis"))
}

func TestAnnotateAndAverages(t *testing.T) {
	ratings := []models.TeamRating{
		{Team: "Boston Celtics", Rating: 1620},
		{Team: "Miami Heat", Rating: 1480},
		{Team: "Denver Nuggets", Rating: 1560},
		{Team: "World All-Stars", Rating: 1500},
	}
	Default().Annotate(ratings)

	assert.Equal(t, Eastern, ratings[0].Conference)
	assert.Equal(t, Unknown, ratings[3].Conference)

	avg := ConferenceAverages(ratings)
	assert.InDelta(t, 1550.0, avg[Eastern], 1e-9)
	assert.InDelta(t, 1560.0, avg[Western], 1e-9)
	assert.InDelta(t, 1500.0, avg[Unknown], 1e-9)
}
