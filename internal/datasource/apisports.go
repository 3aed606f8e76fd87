package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/models"
)

// SourceName identifies games loaded from an api-sports export
const SourceName = "api-sports-file"

// SeasonPlaceholder is replaced by the season id in a games file path
const SeasonPlaceholder = "{season}"

// statusFinished is the api-sports status code of a completed game
const statusFinished = 3

type apiResponse struct {
	Response []apiGame `json:"response"`
}

type apiGame struct {
	ID   int64 `json:"id"`
	Date struct {
		Start string `json:"start"`
	} `json:"date"`
	Stage  int `json:"stage"`
	Status struct {
		Short int `json:"short"`
	} `json:"status"`
	Teams struct {
		Home     apiTeam `json:"home"`
		Visitors apiTeam `json:"visitors"`
	} `json:"teams"`
	Scores struct {
		Home     apiScore `json:"home"`
		Visitors apiScore `json:"visitors"`
	} `json:"scores"`
}

type apiTeam struct {
	Name string `json:"name"`
}

type apiScore struct {
	Points *int `json:"points"`
}

// LoadStats counts what happened to the records of one file
type LoadStats struct {
	Total      int `json:"total"`
	Loaded     int `json:"loaded"`
	Unfinished int `json:"unfinished"`
	Invalid    int `json:"invalid"`
}

// StageFromCode maps api-sports stage numbers: 1 is preseason, 2 the regular
// season and anything higher the playoffs.
func StageFromCode(code int) models.GameStage {
	switch {
	case code <= 1:
		return models.StagePreseason
	case code == 2:
		return models.StageRegular
	default:
		return models.StagePlayoff
	}
}

// ResolvePath substitutes the season id into a games file path template
func ResolvePath(template, seasonID string) string {
	return strings.ReplaceAll(template, SeasonPlaceholder, seasonID)
}

// IsRemote reports whether a games location is an http(s) URL
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// NewSource picks the source for a resolved games location. client is only
// used for remote locations and may be nil for local files.
func NewSource(location string, client *RateLimitedHTTPClient, logger *logrus.Logger) GameSource {
	if IsRemote(location) {
		return NewHTTPSource(location, client, logger)
	}
	return NewFileSource(location, logger)
}

// Decoder converts api-sports exports into game records
type Decoder struct {
	logger   *logrus.Logger
	validate *validator.Validate
}

// NewDecoder creates a decoder that logs skipped records to logger
func NewDecoder(logger *logrus.Logger) *Decoder {
	if logger == nil {
		logger = logrus.New()
	}
	return &Decoder{logger: logger, validate: validator.New()}
}

// FileSource reads an api-sports games export from disk
type FileSource struct {
	*Decoder
	path string
}

// NewFileSource creates a source for the export at path
func NewFileSource(path string, logger *logrus.Logger) *FileSource {
	return &FileSource{Decoder: NewDecoder(logger), path: path}
}

// Name returns the name of the data source
func (s *FileSource) Name() string {
	return SourceName
}

// Path returns the file the source reads
func (s *FileSource) Path() string {
	return s.path
}

// FetchGames reads and decodes the export
func (s *FileSource) FetchGames(ctx context.Context) ([]models.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewSourceError(SourceName, ErrCodeNotFound, "games file "+s.path, ErrNotFound)
		}
		return nil, NewSourceError(SourceName, ErrCodeIO, "open "+s.path, err)
	}
	defer f.Close()

	games, stats, err := s.Decode(f)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"source":     SourceName,
		"path":       s.path,
		"total":      stats.Total,
		"loaded":     stats.Loaded,
		"unfinished": stats.Unfinished,
		"invalid":    stats.Invalid,
	}).Info("Loaded games file")

	return games, nil
}

// Decode converts an export into game records sorted by date. Unfinished
// games and games without both scores are skipped; records that fail
// validation are skipped with a warning.
func (d *Decoder) Decode(r io.Reader) ([]models.GameRecord, LoadStats, error) {
	var resp apiResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, LoadStats{}, NewSourceError(SourceName, ErrCodeInvalidData, "decode games export", fmt.Errorf("%w: %v", ErrInvalidData, err))
	}

	stats := LoadStats{Total: len(resp.Response)}
	games := make([]models.GameRecord, 0, len(resp.Response))

	for _, g := range resp.Response {
		if g.Status.Short != statusFinished || g.Scores.Home.Points == nil || g.Scores.Visitors.Points == nil {
			stats.Unfinished++
			continue
		}

		record, err := d.convert(g)
		if err != nil {
			stats.Invalid++
			d.logger.WithError(err).WithField("game_id", g.ID).Warn("Skipping invalid game record")
			continue
		}
		games = append(games, record)
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Date.Before(games[j].Date)
	})
	stats.Loaded = len(games)

	return games, stats, nil
}

func (d *Decoder) convert(g apiGame) (models.GameRecord, error) {
	date, err := time.Parse(time.RFC3339, g.Date.Start)
	if err != nil {
		return models.GameRecord{}, fmt.Errorf("parse date %q: %w", g.Date.Start, err)
	}

	record := models.GameRecord{
		ID:        strconv.FormatInt(g.ID, 10),
		Date:      date.UTC(),
		HomeTeam:  g.Teams.Home.Name,
		AwayTeam:  g.Teams.Visitors.Name,
		HomeScore: *g.Scores.Home.Points,
		AwayScore: *g.Scores.Visitors.Points,
		Stage:     StageFromCode(g.Stage),
	}
	if err := d.validate.Struct(record); err != nil {
		return models.GameRecord{}, err
	}
	if record.HomeScore == record.AwayScore {
		return models.GameRecord{}, fmt.Errorf("tied score %d-%d", record.HomeScore, record.AwayScore)
	}
	return record, nil
}
