package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventStatus string

const (
	EventStatusActive EventStatus = "ACTIVE"
	EventStatusClosed EventStatus = "CLOSED"
)

// PollOption is one choice attendees can vote for
type PollOption struct {
	Key   string `json:"key" bson:"key" binding:"required"`
	Label string `json:"label" bson:"label" binding:"required"`
	Votes int    `json:"votes" bson:"votes"`
}

type Event struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Options     []PollOption       `json:"options" bson:"options"`
	Status      EventStatus        `json:"status" bson:"status"`
	StartAt     time.Time          `json:"startAt" bson:"start_at"`
	EndAt       time.Time          `json:"endAt" bson:"end_at"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}

// NewEvent creates a new Event with default values
func NewEvent() *Event {
	return &Event{
		Status:    EventStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// HasOption reports whether key names one of the poll options
func (e *Event) HasOption(key string) bool {
	for _, o := range e.Options {
		if o.Key == key {
			return true
		}
	}
	return false
}

// IsOpen reports whether votes are accepted at t. A zero EndAt means no deadline.
func (e *Event) IsOpen(t time.Time) bool {
	if e.Status != EventStatusActive {
		return false
	}
	if !e.StartAt.IsZero() && t.Before(e.StartAt) {
		return false
	}
	if !e.EndAt.IsZero() && !t.Before(e.EndAt) {
		return false
	}
	return true
}

// Vote is a single ballot; one per account per event
type Vote struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EventID   primitive.ObjectID `json:"eventId" bson:"eventId"`
	AccountID string             `json:"accountId" bson:"accountId"`
	OptionKey string             `json:"optionKey" bson:"optionKey"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
