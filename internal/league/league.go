// Package league describes the franchises, conferences and divisions.
package league

import (
	"sort"

	"github.com/yourusername/courtside/internal/models"
)

// Conference names
const (
	Eastern = "Eastern"
	Western = "Western"
	Unknown = "Unknown"
)

// Team is one franchise and its place in the league
type Team struct {
	Name       string `json:"name"`
	Conference string `json:"conference"`
	Division   string `json:"division"`
}

var divisions = []struct {
	conference string
	division   string
	teams      []string
}{
	{Eastern, "Atlantic", []string{"Boston Celtics", "Brooklyn Nets", "New York Knicks", "Philadelphia 76ers", "Toronto Raptors"}},
	{Eastern, "Central", []string{"Chicago Bulls", "Cleveland Cavaliers", "Detroit Pistons", "Indiana Pacers", "Milwaukee Bucks"}},
	{Eastern, "Southeast", []string{"Atlanta Hawks", "Charlotte Hornets", "Miami Heat", "Orlando Magic", "Washington Wizards"}},
	{Western, "Northwest", []string{"Denver Nuggets", "Minnesota Timberwolves", "Oklahoma City Thunder", "Portland Trail Blazers", "Utah Jazz"}},
	{Western, "Pacific", []string{"Golden State Warriors", "LA Clippers", "Los Angeles Lakers", "Phoenix Suns", "Sacramento Kings"}},
	{Western, "Southwest", []string{"Dallas Mavericks", "Houston Rockets", "Memphis Grizzlies", "New Orleans Pelicans", "San Antonio Spurs"}},
}

// Directory looks teams up by name. The zero value is empty; use Default.
type Directory struct {
	teams map[string]Team
}

// Default returns the directory of the thirty current franchises
func Default() *Directory {
	d := &Directory{teams: make(map[string]Team, 30)}
	for _, div := range divisions {
		for _, name := range div.teams {
			d.teams[name] = Team{Name: name, Conference: div.conference, Division: div.division}
		}
	}
	return d
}

// Lookup returns the team with the given name
func (d *Directory) Lookup(name string) (Team, bool) {
	t, ok := d.teams[name]
	return t, ok
}

// Conference returns the team's conference, or Unknown
func (d *Directory) Conference(name string) string {
	if t, ok := d.teams[name]; ok {
		return t.Conference
	}
	return Unknown
}

// Teams lists every franchise sorted by name
func (d *Directory) Teams() []Team {
	out := make([]Team, 0, len(d.teams))
	for _, t := range d.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Annotate fills the Conference field of every rating in place
func (d *Directory) Annotate(ratings []models.TeamRating) {
	for i := range ratings {
		ratings[i].Conference = d.Conference(ratings[i].Team)
	}
}

// ConferenceAverages returns the mean rating per conference. Teams without a
// known conference are grouped under Unknown.
func ConferenceAverages(ratings []models.TeamRating) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range ratings {
		conf := r.Conference
		if conf == "" {
			conf = Unknown
		}
		sums[conf] += r.Rating
		counts[conf]++
	}
	out := make(map[string]float64, len(sums))
	for conf, sum := range sums {
		out[conf] = sum / float64(counts[conf])
	}
	return out
}
