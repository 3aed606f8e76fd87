package datasource

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/models"
)

// HTTPSourceName identifies games fetched from a remote api-sports export
const HTTPSourceName = "api-sports-http"

// HTTPSource downloads an api-sports games export
type HTTPSource struct {
	*Decoder
	url    string
	client *RateLimitedHTTPClient
}

// NewHTTPSource creates a source for the export at url. A nil client gets
// the default configuration.
func NewHTTPSource(url string, client *RateLimitedHTTPClient, logger *logrus.Logger) *HTTPSource {
	if client == nil {
		client = NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), logger)
	}
	return &HTTPSource{Decoder: NewDecoder(logger), url: url, client: client}
}

// Name returns the name of the data source
func (s *HTTPSource) Name() string {
	return HTTPSourceName
}

// FetchGames downloads and decodes the export
func (s *HTTPSource) FetchGames(ctx context.Context) ([]models.GameRecord, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, NewSourceError(HTTPSourceName, ErrCodeIO, "fetch "+s.url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewSourceError(HTTPSourceName, ErrCodeNotFound, "games export "+s.url, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, NewSourceError(HTTPSourceName, ErrCodeIO, "fetch "+s.url,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	games, stats, err := s.Decode(resp.Body)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"source":     HTTPSourceName,
		"url":        s.url,
		"total":      stats.Total,
		"loaded":     stats.Loaded,
		"unfinished": stats.Unfinished,
		"invalid":    stats.Invalid,
	}).Info("Downloaded games export")

	return games, nil
}
