// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ActionType is the user's verdict on a returned result.
type ActionType string

const (
	ActionAccepted ActionType = "accepted"
	ActionRejected ActionType = "rejected"
	ActionViewed   ActionType = "viewed"
)

// SearchSession records one orchestrated search run.
type SearchSession struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id"`
	Query          string    `json:"query"`
	ResultCount    int       `json:"result_count"`
	Degraded       bool      `json:"degraded"`
	CreatedAt      time.Time `json:"created_at"`
}

// ResultAction records a user's accept/reject/view on a single result.
// These records drive feedback-based ranking.
type ResultAction struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	UserID    string     `json:"user_id"`
	Action    ActionType `json:"action"`

	// Result metadata retained for similarity matching.
	Title    string   `json:"title"`
	Journal  string   `json:"journal,omitempty"`
	Authors  []string `json:"authors,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	DOI      string   `json:"doi,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
