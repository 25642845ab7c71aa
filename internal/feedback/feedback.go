// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feedback re-ranks scored results using a user's historical
// accept/reject actions. It is a pure re-ranking: history is read-only
// and an unavailable history store means no adjustment.
package feedback

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// HistoryStore supplies a user's past result actions. The SQLite store
// in internal/analytics implements it; tests substitute fakes.
type HistoryStore interface {
	UserActions(ctx context.Context, userID string) ([]types.ResultAction, error)
}

// Adjustment magnitudes per matching historical action. Accepts pull a
// result up, rejects push it down; repeated signals accumulate but the
// total nudge stays within ±maxAdjust.
const (
	acceptBoost   = 0.08
	rejectPenalty = 0.10
	maxAdjust     = 0.3
)

// Ranker applies feedback-based re-ranking.
type Ranker struct {
	store HistoryStore
	log   *zap.Logger
}

// NewRanker builds a Ranker over the given history store.
func NewRanker(store HistoryStore, log *zap.Logger) *Ranker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ranker{store: store, log: log}
}

// Rank re-orders results by confidence after nudging each result's
// confidence toward the user's historical preferences. Results similar
// to accepted ones (same journal, overlapping authors, or overlapping
// keyword profile) gain confidence; results similar to rejected ones
// lose it. History failures and empty history leave the input ranking
// untouched. The input slice is not mutated.
func (r *Ranker) Rank(ctx context.Context, userID string, results []types.SearchResult) []types.SearchResult {
	out := make([]types.SearchResult, len(results))
	copy(out, results)

	if userID == "" || r.store == nil {
		return out
	}

	history, err := r.store.UserActions(ctx, userID)
	if err != nil {
		r.log.Warn("history unavailable, skipping feedback ranking",
			zap.String("user_id", userID), zap.Error(err))
		return out
	}
	if len(history) == 0 {
		return out
	}

	for i := range out {
		adjust := 0.0
		for _, action := range history {
			if !similar(out[i], action) {
				continue
			}
			switch action.Action {
			case types.ActionAccepted:
				adjust += acceptBoost
			case types.ActionRejected:
				adjust -= rejectPenalty
			}
		}
		if adjust > maxAdjust {
			adjust = maxAdjust
		}
		if adjust < -maxAdjust {
			adjust = -maxAdjust
		}
		out[i].Confidence = clamp01(out[i].Confidence + adjust)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// similar reports whether a result matches a historical action: same
// DOI, same journal, overlapping authors, or a shared keyword profile.
func similar(result types.SearchResult, action types.ResultAction) bool {
	if result.DOI != "" && strings.EqualFold(result.DOI, action.DOI) {
		return true
	}
	if result.Journal != "" && strings.EqualFold(result.Journal, action.Journal) {
		return true
	}
	if overlaps(result.Authors, action.Authors) {
		return true
	}
	return keywordOverlap(result, action) >= 2
}

func overlaps(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[strings.ToLower(strings.TrimSpace(s))]; ok {
			return true
		}
	}
	return false
}

// keywordOverlap counts action keywords appearing in the result's title
// or keyword list.
func keywordOverlap(result types.SearchResult, action types.ResultAction) int {
	title := strings.ToLower(result.Title)
	kw := strings.ToLower(strings.Join(result.Keywords, " "))

	n := 0
	for _, k := range action.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if strings.Contains(title, k) || strings.Contains(kw, k) {
			n++
		}
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
