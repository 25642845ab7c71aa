// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline failure taxonomy. Callers classify
// failures with errors.Is and map them to response codes at the boundary.
var (
	// ErrInvalidRequest marks missing or malformed request fields.
	// Surfaced immediately; never degraded.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUpstreamUnavailable marks a content or search provider failure.
	// Recoverable unless retries are exhausted.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrRateLimited marks a denied provider call due to the per-process
	// rate limit. Distinct from network failure; no silent retry.
	ErrRateLimited = errors.New("rate limited")
)

// PartialFailure reports that some of several content sources failed
// while the pipeline continued with the rest.
type PartialFailure struct {
	// Failed lists the source descriptors that could not be resolved,
	// as "source/id" strings.
	Failed []string
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("partial failure: %d content sources failed", len(e.Failed))
}
