package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/elo"
	"github.com/yourusername/courtside/internal/market"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/series"
	"github.com/yourusername/courtside/internal/service"
)

// ratingsParams selects the season and engine overrides of a request
type ratingsParams struct {
	Season          string  `json:"season"`
	KFactorType     string  `json:"k_factor_type" validate:"omitempty,oneof=fixed decreasing"`
	KFactorValue    float64 `json:"k_factor_value" validate:"gte=0"`
	HomeCourt       *bool   `json:"home_court"`
	MarginOfVictory *bool   `json:"margin_of_victory"`
	StartDate       string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate         string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func (p ratingsParams) request() (service.RatingsRequest, error) {
	req := service.RatingsRequest{
		Season:          p.Season,
		KFactorType:     p.KFactorType,
		KFactorValue:    p.KFactorValue,
		HomeCourt:       p.HomeCourt,
		MarginOfVictory: p.MarginOfVictory,
	}
	if p.StartDate == "" && p.EndDate == "" {
		return req, nil
	}
	if p.StartDate == "" || p.EndDate == "" {
		return req, fmt.Errorf("%w: start_date and end_date must be given together", models.ErrConfiguration)
	}

	start, err := time.Parse(config.DateLayout, p.StartDate)
	if err != nil {
		return req, fmt.Errorf("%w: start_date: %v", models.ErrConfiguration, err)
	}
	end, err := time.Parse(config.DateLayout, p.EndDate)
	if err != nil {
		return req, fmt.Errorf("%w: end_date: %v", models.ErrConfiguration, err)
	}
	window := elo.DayWindow(start, end)
	req.Window = &window
	return req, nil
}

// ratingsBody is a ratings request that may ask for one team's trajectory
type ratingsBody struct {
	ratingsParams
	History string `json:"history"`
}

// RatingsResponse is a ratings report with an optional team trajectory
type RatingsResponse struct {
	*service.RatingsReport
	History []elo.TrajectoryPoint `json:"history,omitempty"`
}

type compareParams struct {
	ratingsParams
	Policies []string `json:"policies"`
	Movers   int      `json:"movers" validate:"gte=0"`
}

type winProbabilityParams struct {
	ratingsParams
	TeamA string `json:"team_a" validate:"required"`
	TeamB string `json:"team_b" validate:"required,nefield=TeamA"`
}

// seriesParams projects a series. Without explicit ratings both teams are
// looked up in the selected season's ratings.
type seriesParams struct {
	ratingsParams
	TeamA   string   `json:"team_a" validate:"required"`
	TeamB   string   `json:"team_b" validate:"required"`
	SeedA   int      `json:"seed_a"`
	SeedB   int      `json:"seed_b"`
	WinsA   int      `json:"wins_a"`
	WinsB   int      `json:"wins_b"`
	RatingA *float64 `json:"rating_a" validate:"required_with=RatingB"`
	RatingB *float64 `json:"rating_b" validate:"required_with=RatingA"`
	// Simulations adds a Monte Carlo cross-check when positive
	Simulations int   `json:"simulations" validate:"gte=0,lte=1000000"`
	Seed        int64 `json:"seed"`
}

// SeriesResponse is a series projection with its optional simulation
type SeriesResponse struct {
	*series.Result
	Simulation *series.SimulationResult `json:"simulation,omitempty"`
}

// OddsResponse describes one price in every supported form
type OddsResponse struct {
	American           float64 `json:"american"`
	Formatted          string  `json:"formatted"`
	Decimal            float64 `json:"decimal"`
	ImpliedProbability float64 `json:"implied_probability"`
	FormattedPercent   string  `json:"formatted_percent"`
}

// ComparisonResponse is a K-factor comparison with its biggest movers
type ComparisonResponse struct {
	*service.KComparison
	Movers []service.TeamComparison `json:"biggest_movers"`
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	teams := s.svc.League().Teams()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"teams": teams,
		"count": len(teams),
	})
}

func (s *Server) handleSeasons(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"seasons": s.svc.Seasons().Seasons(),
		"current": s.svc.Seasons().Current().ID,
	})
}

// handleOdds converts between American odds and probabilities.
// Query params: american or probability (percent)
func (s *Server) handleOdds(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var odds float64
	switch {
	case query.Get("american") != "":
		v, err := strconv.ParseFloat(query.Get("american"), 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "american must be a number", "validation")
			return
		}
		odds = v
	case query.Get("probability") != "":
		pct, err := strconv.ParseFloat(query.Get("probability"), 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "probability must be a number", "validation")
			return
		}
		odds, err = market.ProbabilityToAmericanOdds(pct / 100)
		if err != nil {
			s.respondFailure(w, r, err)
			return
		}
	default:
		respondError(w, http.StatusBadRequest, "american or probability is required", "validation")
		return
	}

	implied, err := market.OddsToProbability(odds)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	dec, err := market.AmericanToDecimal(odds)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, OddsResponse{
		American:           odds,
		Formatted:          market.FormatAmericanOdds(odds),
		Decimal:            dec,
		ImpliedProbability: implied * 100,
		FormattedPercent:   market.FormatPercent(implied * 100),
	})
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	var params ratingsBody
	if err := s.decode(r, &params); err != nil {
		s.respondFailure(w, r, err)
		return
	}
	req, err := params.request()
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	report, err := s.svc.Ratings(r.Context(), req)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	response := RatingsResponse{RatingsReport: report}
	if params.History != "" {
		response.History, err = report.Snapshot.TeamHistory(params.History)
		if err != nil {
			s.respondFailure(w, r, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleCompareK(w http.ResponseWriter, r *http.Request) {
	var params compareParams
	if err := s.decode(r, &params); err != nil {
		s.respondFailure(w, r, err)
		return
	}
	req, err := params.request()
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	policies, err := service.ParsePolicies(params.Policies)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	cmp, err := s.svc.CompareKPolicies(r.Context(), req, policies)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	movers := params.Movers
	if movers == 0 {
		movers = 5
	}
	respondJSON(w, http.StatusOK, ComparisonResponse{KComparison: cmp, Movers: cmp.BiggestMovers(movers)})
}

func (s *Server) handleWinProbability(w http.ResponseWriter, r *http.Request) {
	var params winProbabilityParams
	if err := s.decode(r, &params); err != nil {
		s.respondFailure(w, r, err)
		return
	}
	req, err := params.request()
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	result, err := s.svc.WinProbability(r.Context(), req, params.TeamA, params.TeamB)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team_a":           params.TeamA,
		"team_b":           params.TeamB,
		"home_court_bonus": s.svc.ProbabilityHomeBonus(),
		"result":           result,
	})
}

func (s *Server) handleSeriesProbability(w http.ResponseWriter, r *http.Request) {
	var params seriesParams
	if err := s.decode(r, &params); err != nil {
		s.respondFailure(w, r, err)
		return
	}

	state := models.SeriesState{
		TeamA: params.TeamA,
		TeamB: params.TeamB,
		SeedA: params.SeedA,
		SeedB: params.SeedB,
		WinsA: params.WinsA,
		WinsB: params.WinsB,
	}
	var (
		result *series.Result
		err    error
	)
	if params.RatingA != nil {
		state.RatingA, state.RatingB = *params.RatingA, *params.RatingB
		result, err = s.svc.SeriesProbability(state)
	} else {
		req, reqErr := params.request()
		if reqErr != nil {
			s.respondFailure(w, r, reqErr)
			return
		}
		result, err = s.svc.SeriesForTeams(r.Context(), req, state)
	}
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	response := SeriesResponse{Result: result}
	if params.Simulations > 0 {
		sim, err := s.svc.SimulateSeries(r.Context(), result.State, series.SimulationConfig{
			Iterations: params.Simulations,
			Seed:       params.Seed,
		})
		if err != nil {
			s.respondFailure(w, r, err)
			return
		}
		response.Simulation = &sim
	}
	respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleMarketAnalysis(w http.ResponseWriter, r *http.Request) {
	var req service.MarketRequest
	if err := s.decode(r, &req); err != nil {
		s.respondFailure(w, r, err)
		return
	}

	analysis, err := s.svc.AnalyzeMarket(req)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"analysis": analysis,
		"report":   market.GenerateConsoleReport(analysis),
	})
}
