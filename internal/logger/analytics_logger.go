// Package logger provides analytics-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AnalyticsLogger provides dedicated logging for rating, series and market
// calculations.
type AnalyticsLogger struct {
	*logrus.Entry
}

// NewAnalyticsLogger creates a new analytics logger.
func NewAnalyticsLogger(baseLogger *logrus.Logger) *AnalyticsLogger {
	return &AnalyticsLogger{
		Entry: baseLogger.WithField("component", "analytics"),
	}
}

// LogRatingRun logs a completed rating run.
func (al *AnalyticsLogger) LogRatingRun(season, policy string, gamesProcessed, teams int, duration time.Duration, cacheHit bool) {
	al.WithFields(logrus.Fields{
		"season":          season,
		"policy":          policy,
		"games_processed": gamesProcessed,
		"teams":           teams,
		"duration_ms":     float64(duration.Microseconds()) / 1000,
		"cache_hit":       cacheHit,
	}).Info("Rating run completed")
}

// LogSeriesProjection logs a series probability calculation.
func (al *AnalyticsLogger) LogSeriesProjection(teamA, teamB string, winsA, winsB int, probabilityA float64) {
	al.WithFields(logrus.Fields{
		"team_a":        teamA,
		"team_b":        teamB,
		"wins_a":        winsA,
		"wins_b":        winsB,
		"probability_a": probabilityA,
	}).Debug("Series projection calculated")
}

// LogMarketComparison logs one model estimate compared with the market.
func (al *AnalyticsLogger) LogMarketComparison(analysisID, model string, edge, kelly float64, riskLevel string) {
	al.WithFields(logrus.Fields{
		"analysis_id": analysisID,
		"model":       model,
		"edge":        edge,
		"kelly":       kelly,
		"risk_level":  riskLevel,
	}).Info("Market comparison calculated")
}

// LogCalculationError logs a rejected calculation.
func (al *AnalyticsLogger) LogCalculationError(operation, kind string, err error) {
	al.WithFields(logrus.Fields{
		"operation":  operation,
		"error_kind": kind,
	}).WithError(err).Warn("Calculation rejected")
}
