package models

import "time"

// CreateEventRequest defines the body for creating an event poll
type CreateEventRequest struct {
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description"`
	Options     []PollOption `json:"options" binding:"required,min=1,dive"`
	StartAt     *time.Time   `json:"startAt"`
	EndAt       *time.Time   `json:"endAt"`
}

// VoteRequest defines the body for casting a vote
type VoteRequest struct {
	OptionKey string `json:"optionKey" binding:"required"`
}

// GrantPointsRequest defines the body for a staff point grant
type GrantPointsRequest struct {
	Points int `json:"points" binding:"required,gt=0"`
}
