// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract normalizes user ideas and builder documents into
// ExtractedContent records: frequency-ranked keywords, recurring key
// phrases, taxonomy topics, and a confidence score.
package extract

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/scholar-engine/internal/content"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

// Provider fetches raw content records. The HTTP client in
// internal/content implements it; tests substitute fakes.
type Provider interface {
	Fetch(ctx context.Context, source types.ContentSource, id string) (content.Record, error)
}

// Request identifies one upstream record to extract from.
type Request struct {
	Source types.ContentSource `json:"source"`
	ID     string              `json:"id"`
}

// Extractor derives ExtractedContent from upstream records. Stateless;
// safe for concurrent use.
type Extractor struct {
	provider  Provider
	stopwords map[string]struct{}
	cfg       types.ExtractionConfig
	log       *zap.Logger
}

// NewExtractor builds an Extractor over the given provider.
func NewExtractor(provider Provider, cfg types.ExtractionConfig, log *zap.Logger) *Extractor {
	if cfg.MaxKeywords <= 0 {
		cfg.MaxKeywords = 10
	}
	if cfg.MaxKeyPhrases <= 0 {
		cfg.MaxKeyPhrases = 5
	}
	if cfg.PhraseMinCount <= 0 {
		cfg.PhraseMinCount = 2
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		provider:  provider,
		stopwords: defaultStopwords(),
		cfg:       cfg,
		log:       log,
	}
}

// Extract fetches the requested record and derives an ExtractedContent.
// Upstream failures never propagate: the caller gets a clearly-labeled
// fallback record with low confidence so the pipeline can proceed with
// degraded input. The returned error is non-nil only to report that the
// record is a fallback (wrapped ErrUpstreamUnavailable).
func (e *Extractor) Extract(ctx context.Context, req Request) (types.ExtractedContent, error) {
	rec, err := e.provider.Fetch(ctx, req.Source, req.ID)
	if err != nil {
		e.log.Warn("content fetch failed, using fallback",
			zap.String("source", string(req.Source)),
			zap.String("id", req.ID),
			zap.Error(err))
		return e.fallback(req), fmt.Errorf("extracting %s/%s: %w", req.Source, req.ID, err)
	}
	return e.fromRecord(req, rec), nil
}

// ExtractAll extracts from several sources concurrently, preserving the
// input order in the returned slice. Failed sources yield fallback
// records; the returned error is a *types.PartialFailure listing their
// descriptors, or nil when every source resolved.
func (e *Extractor) ExtractAll(ctx context.Context, reqs []Request) ([]types.ExtractedContent, error) {
	results := make([]types.ExtractedContent, len(reqs))
	failed := make([]string, len(reqs))

	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()
			ec, err := e.Extract(ctx, req)
			results[i] = ec
			if err != nil {
				failed[i] = string(req.Source) + "/" + req.ID
			}
		}(i, req)
	}
	wg.Wait()

	var failures []string
	for _, f := range failed {
		if f != "" {
			failures = append(failures, f)
		}
	}
	if len(failures) > 0 {
		return results, &types.PartialFailure{Failed: failures}
	}
	return results, nil
}

// fromRecord derives keywords, phrases, topics, and confidence from a
// fetched record.
func (e *Extractor) fromRecord(req Request, rec content.Record) types.ExtractedContent {
	text := rec.Text()
	seed := text
	if rec.Title != "" {
		// Title terms count toward keyword frequency as well.
		seed = rec.Title + ". " + text
	}

	keywords := extractKeywords(seed, e.stopwords, e.cfg.MaxKeywords)
	keywords = mergeTags(keywords, rec.Tags, e.cfg.MaxKeywords+len(rec.Tags))

	return types.ExtractedContent{
		ID:          rec.ID,
		Source:      req.Source,
		Title:       rec.Title,
		Content:     text,
		Keywords:    keywords,
		KeyPhrases:  extractKeyPhrases(seed, e.stopwords, e.cfg.PhraseMinCount, e.cfg.MaxKeyPhrases),
		Topics:      matchTopics(seed),
		Confidence:  confidence(rec.Title, text, keywords),
		ExtractedAt: time.Now().UTC(),
	}
}

// fallback returns the degraded record used when the upstream fetch fails.
func (e *Extractor) fallback(req Request) types.ExtractedContent {
	return types.ExtractedContent{
		ID:          req.ID,
		Source:      req.Source,
		Title:       "Research Topic (Extraction Failed)",
		Keywords:    []string{"research"},
		Confidence:  0.2,
		ExtractedAt: time.Now().UTC(),
	}
}

// confidence scores extraction quality: base 0.5, +0.2 for substantial
// content (>200 chars), +0.2 for at least three keywords, +0.1 for a
// title, capped at 1.0.
func confidence(title, text string, keywords []string) float64 {
	score := 0.5
	if len(text) > 200 {
		score += 0.2
	}
	if len(keywords) >= 3 {
		score += 0.2
	}
	if strings.TrimSpace(title) != "" {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// mergeTags appends upstream tags to the keyword list, preserving order
// and case-insensitive uniqueness.
func mergeTags(keywords, tags []string, max int) []string {
	seen := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		seen[strings.ToLower(k)] = struct{}{}
	}
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.ToLower(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		if len(keywords) >= max {
			break
		}
		seen[tag] = struct{}{}
		keywords = append(keywords, tag)
	}
	return keywords
}
