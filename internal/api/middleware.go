package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/yourusername/courtside/internal/metrics"
)

// observe records request metrics and an audit entry per request, labelled
// by route pattern so path parameters do not explode label cardinality
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		elapsed := time.Since(start)
		metrics.RecordHTTPRequest(route, strconv.Itoa(status), elapsed.Seconds())
		s.audit.LogRequest(chimiddleware.GetReqID(r.Context()), r.Method, r.URL.Path, status, elapsed)
	})
}
