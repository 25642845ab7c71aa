// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdiddy/scholar-engine/internal/extract"
	"github.com/pdiddy/scholar-engine/internal/orchestrator"
	"github.com/pdiddy/scholar-engine/internal/query"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

// ActionRecorder persists per-result user actions. internal/analytics
// implements it.
type ActionRecorder interface {
	RecordAction(ctx context.Context, action types.ResultAction) (types.ResultAction, error)
}

// Handler holds the services behind the HTTP surface.
type Handler struct {
	orch      *orchestrator.Orchestrator
	extractor *extract.Extractor
	engine    *query.Engine
	recorder  ActionRecorder
	log       *zap.Logger
}

// NewHandler wires a Handler. The recorder may be nil; action recording
// then responds with an error.
func NewHandler(orch *orchestrator.Orchestrator, extractor *extract.Extractor,
	engine *query.Engine, recorder ActionRecorder, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{orch: orch, extractor: extractor, engine: engine, recorder: recorder, log: log}
}

// Search runs the full pipeline. Degraded output is still a success;
// only an unresolvable query, a rate-limited provider, or an exhausted
// provider fail the request.
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	oreq := orchestrator.Request{
		Query:          req.Query,
		UserID:         req.UserID,
		ConversationID: req.ConversationID,
		Filters:        req.Filters,
		Options: query.Options{
			MaxKeywords:    req.Options.MaxKeywords,
			CombineContent: req.Options.CombineContent,
			Type:           types.QueryType(req.Options.Type),
		},
	}
	for _, src := range req.ContentSources {
		oreq.ContentSources = append(oreq.ContentSources, src.toRequest())
	}

	resp, err := h.orch.Search(c.Request.Context(), oreq)
	if err != nil {
		h.log.Warn("search failed", zap.Error(err))
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, types.ErrInvalidRequest):
			status = http.StatusBadRequest
		case errors.Is(err, types.ErrRateLimited):
			status = http.StatusTooManyRequests
		}
		c.JSON(status, Envelope{
			Success:     false,
			Error:       err.Error(),
			FallbackURL: resp.FallbackURL,
		})
		return
	}

	c.JSON(http.StatusOK, Envelope{Success: true, Data: resp})
}

// GenerateQuery extracts content and returns ranked query candidates.
func (h *Handler) GenerateQuery(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	reqs := make([]extract.Request, len(req.ContentSources))
	for i, src := range req.ContentSources {
		reqs[i] = src.toRequest()
	}
	contents, err := h.extractor.ExtractAll(c.Request.Context(), reqs)
	var failed []string
	var pf *types.PartialFailure
	if errors.As(err, &pf) {
		failed = pf.Failed
	}

	queries := h.engine.GenerateQueries(contents, query.Options{
		MaxKeywords:    req.Options.MaxKeywords,
		CombineContent: req.Options.CombineContent,
		Type:           types.QueryType(req.Options.Type),
	})

	c.JSON(http.StatusOK, Envelope{Success: true, Data: gin.H{
		"queries":           queries,
		"extracted_content": contents,
		"failed_sources":    failed,
	}})
}

// RefineQuery returns breadth analysis, alternative terms, validation,
// recommendations, and refined variants for a query.
func (h *Handler) RefineQuery(c *gin.Context) {
	var req RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	refinement := h.engine.RefineQuery(req.Query, req.OriginalContent)
	c.JSON(http.StatusOK, Envelope{Success: true, Data: gin.H{"refinement": refinement}})
}

// ValidateQuery checks a query string for syntactic validity. Invalid
// queries are a successful response carrying the validation verdict.
func (h *Handler) ValidateQuery(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	validation := query.ValidateQuery(req.Query)
	c.JSON(http.StatusOK, Envelope{Success: true, Data: gin.H{"validation": validation}})
}

// CombineQueries unions several queries into one broader query.
func (h *Handler) CombineQueries(c *gin.Context) {
	var req CombineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	combined, ok := h.engine.CombineQueries(req.Queries)
	if !ok {
		badRequest(c, "no queries to combine")
		return
	}
	c.JSON(http.StatusOK, Envelope{Success: true, Data: gin.H{"combined_query": combined}})
}

// RecordAction persists a user's accept/reject/view on a result.
func (h *Handler) RecordAction(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if h.recorder == nil {
		c.JSON(http.StatusServiceUnavailable, Envelope{
			Success: false,
			Error:   "analytics store is not configured",
		})
		return
	}

	action, err := h.recorder.RecordAction(c.Request.Context(), types.ResultAction{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Action:    types.ActionType(req.Action),
		Title:     req.Title,
		Journal:   req.Journal,
		Authors:   req.Authors,
		Keywords:  req.Keywords,
		DOI:       req.DOI,
	})
	if err != nil {
		h.log.Error("recording action failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Envelope{
			Success: false,
			Error:   "could not record the action",
		})
		return
	}

	c.JSON(http.StatusOK, Envelope{Success: true, Data: gin.H{"action": action}})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: msg})
}
