// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", h.Health)

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/search", h.Search)
		apiGroup.POST("/query/generate", h.GenerateQuery)
		apiGroup.POST("/query/refine", h.RefineQuery)
		apiGroup.POST("/query/validate", h.ValidateQuery)
		apiGroup.POST("/query/combine", h.CombineQueries)
		apiGroup.POST("/results/action", h.RecordAction)
	}

	return r
}
