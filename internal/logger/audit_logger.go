// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for the API and
// background jobs.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogRequest logs a served HTTP request.
func (al *AuditLogger) LogRequest(requestID, method, path string, status int, duration time.Duration) {
	entry := al.WithFields(logrus.Fields{
		"request_id":  requestID,
		"method":      method,
		"path":        path,
		"status":      status,
		"duration_ms": float64(duration.Microseconds()) / 1000,
	})
	if status >= 500 {
		entry.Error("Request failed")
		return
	}
	entry.Info("Request served")
}

// LogSeasonAdded logs a season entering the catalogue.
func (al *AuditLogger) LogSeasonAdded(currentSeason string, total int) {
	al.WithFields(logrus.Fields{
		"current_season": currentSeason,
		"seasons":        total,
	}).Info("Season catalogue extended")
}

// LogCachePurge logs a ratings cache purge.
func (al *AuditLogger) LogCachePurge(reason string, entriesRemoved int) {
	al.WithFields(logrus.Fields{
		"reason":          reason,
		"entries_removed": entriesRemoved,
	}).Info("Ratings cache purged")
}
