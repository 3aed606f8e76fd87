package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/yourusername/courtside/internal/elo"
)

// TeamComparison lines up one team's rating and rank under each policy, in
// the order the policies were given
type TeamComparison struct {
	Team         string    `json:"team"`
	Ratings      []float64 `json:"ratings"`
	Ranks        []int     `json:"ranks"`
	RatingSpread float64   `json:"rating_spread"`
	RankSpread   int       `json:"rank_spread"`
}

// KComparison is the result of running several K-factor policies over the
// same games
type KComparison struct {
	Season   string           `json:"season"`
	Policies []string         `json:"policies"`
	Reports  []*RatingsReport `json:"-"`
	Teams    []TeamComparison `json:"teams"`
}

// DefaultPolicies are the fixed and decreasing schedules compared by default
func DefaultPolicies() []elo.KFactorPolicy {
	return []elo.KFactorPolicy{elo.FixedK{Value: 20}, elo.DecreasingK{}}
}

// CompareKPolicies runs one independent engine per policy in parallel over
// a single load of the season's games
func (s *AnalyticsService) CompareKPolicies(ctx context.Context, req RatingsRequest, policies []elo.KFactorPolicy) (*KComparison, error) {
	if len(policies) == 0 {
		policies = DefaultPolicies()
	}

	sn, err := s.seasons.Lookup(req.Season)
	if err != nil {
		return nil, s.fail("compare_k", err)
	}
	base, err := s.engineConfig(req, sn)
	if err != nil {
		return nil, s.fail("compare_k", err)
	}

	games, err := s.sources(sn.ID).FetchGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load games for %s: %w", sn.ID, err)
	}

	reports := make([]*RatingsReport, len(policies))
	errs := make([]error, len(policies))
	var wg sync.WaitGroup
	for i, policy := range policies {
		wg.Add(1)
		go func(i int, policy elo.KFactorPolicy) {
			defer wg.Done()
			cfg := base
			cfg.KFactor = policy
			reports[i], errs[i] = s.run(sn.ID, cfg, games)
		}(i, policy)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, s.fail("compare_k", fmt.Errorf("policy %s: %w", policies[i].Name(), err))
		}
	}

	return buildComparison(sn.ID, reports), nil
}

func buildComparison(seasonID string, reports []*RatingsReport) *KComparison {
	out := &KComparison{Season: seasonID, Reports: reports}
	for _, r := range reports {
		out.Policies = append(out.Policies, r.Snapshot.Policy)
	}
	if len(reports) == 0 {
		return out
	}

	// teams follow the ranking of the first policy
	for _, rating := range reports[0].Snapshot.Ratings {
		tc := TeamComparison{Team: rating.Team}
		lo, hi := math.Inf(1), math.Inf(-1)
		loRank, hiRank := math.MaxInt, 0
		for _, r := range reports {
			tr, _ := r.Snapshot.Rating(rating.Team)
			rank := r.Snapshot.Rank(rating.Team)
			tc.Ratings = append(tc.Ratings, tr.Rating)
			tc.Ranks = append(tc.Ranks, rank)
			lo, hi = math.Min(lo, tr.Rating), math.Max(hi, tr.Rating)
			if rank < loRank {
				loRank = rank
			}
			if rank > hiRank {
				hiRank = rank
			}
		}
		tc.RatingSpread = hi - lo
		tc.RankSpread = hiRank - loRank
		out.Teams = append(out.Teams, tc)
	}
	return out
}

// BiggestMovers returns the n teams whose rank differs most between policies
func (c *KComparison) BiggestMovers(n int) []TeamComparison {
	movers := make([]TeamComparison, len(c.Teams))
	copy(movers, c.Teams)
	sort.SliceStable(movers, func(i, j int) bool {
		if movers[i].RankSpread != movers[j].RankSpread {
			return movers[i].RankSpread > movers[j].RankSpread
		}
		return movers[i].RatingSpread > movers[j].RatingSpread
	})
	if n >= 0 && n < len(movers) {
		movers = movers[:n]
	}
	return movers
}

// ParsePolicies builds policies from "fixed:20" / "decreasing" strings
func ParsePolicies(specs []string) ([]elo.KFactorPolicy, error) {
	policies := make([]elo.KFactorPolicy, 0, len(specs))
	for _, spec := range specs {
		var kind string
		var value float64
		if n, _ := fmt.Sscanf(spec, "fixed:%g", &value); n == 1 {
			kind = "fixed"
		} else {
			kind = spec
		}
		policy, err := elo.ParseKFactor(kind, value)
		if err != nil {
			return nil, fmt.Errorf("policy %q: %w", spec, err)
		}
		policies = append(policies, policy)
	}
	return policies, nil
}
