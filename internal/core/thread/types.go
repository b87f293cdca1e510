// Package thread turns chat platform containers into canonical threads and their messages
package thread

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type (
	// ContainerID identifies one record of the chat list API; a container holds one or more threads
	ContainerID string
	// ThreadID identifies one conversation, the unit threads are stored by
	ThreadID string
	// MessageID identifies one event, unique across the platform
	MessageID string
)

// Window is the [Start, End) creation range of containers to list
type Window struct {
	Start time.Time
	End   time.Time
}

// UnmarshalJSON accepts the id as a string or a bare number
func (id *ContainerID) UnmarshalJSON(b []byte) error {
	s, err := lenientID(b)
	*id = ContainerID(s)
	return err
}

// UnmarshalJSON accepts the id as a string or a bare number
func (id *ThreadID) UnmarshalJSON(b []byte) error {
	s, err := lenientID(b)
	*id = ThreadID(s)
	return err
}

// UnmarshalJSON accepts the id as a string or a bare number
func (id *MessageID) UnmarshalJSON(b []byte) error {
	s, err := lenientID(b)
	*id = MessageID(s)
	return err
}

// lenientID returns a JSON string as is and a JSON number as its literal text; null is empty
func lenientID(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		return "", nil
	case b[0] == '"':
		var s string
		err := json.Unmarshal(b, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", fmt.Errorf("thread: id must be a string or a number, got %s", b)
	}
	return n.String(), nil
}

// Status of a stored thread
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// AuthorType classifies who wrote a message
type AuthorType string

const (
	AuthorAgent    AuthorType = "agent"
	AuthorCustomer AuthorType = "customer"
	AuthorSystem   AuthorType = "system"
)

// Event types the normalizer keeps
const (
	EventMessage       = "message"
	EventSystemMessage = "system_message"
)

// RawContainer is one element of the chat list response
type RawContainer struct {
	ID           ContainerID   `json:"id"`
	AgentName    string        `json:"agent_name"`
	CustomerName string        `json:"customer_name"`
	CreatedAt    string        `json:"created_at"`
	Properties   RawProperties `json:"properties"`

	// Payload keeps the exact bytes received, stored with the thread for audit
	Payload json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the container and keeps a copy of the payload
func (c *RawContainer) UnmarshalJSON(b []byte) error {
	type plain RawContainer
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = RawContainer(p)
	c.Payload = append(json.RawMessage(nil), b...)
	return nil
}

// RawProperties carries the two nested blobs the platform attaches
type RawProperties struct {
	FullChatData FullChatData `json:"full_chat_data"`
	RawChatData  RawChatData  `json:"raw_chat_data"`
}

// FullChatData holds the events of the container
type FullChatData struct {
	AllMessages       []Event                    `json:"all_messages"`
	LastThreadSummary *ThreadSummary             `json:"last_thread_summary"`
	LastEventPerType  map[string]json.RawMessage `json:"last_event_per_type"`
}

// ThreadSummary describes the latest thread of a container
type ThreadSummary struct {
	ID     ThreadID `json:"id"`
	Active *bool    `json:"active"`
}

// RawChatData holds the platform computed figures
type RawChatData struct {
	EndedAt                  string `json:"ended_at"`
	Duration                 Num    `json:"duration"`
	FirstResponseTimeSeconds Num    `json:"first_response_time_seconds"`
	RatingScore              Num    `json:"rating_score"`
	RatingStatus             string `json:"rating_status"`
	RatingComment            string `json:"rating_comment"`
	HasRatingComment         bool   `json:"has_rating_comment"`
	ComplaintFlag            bool   `json:"complaint_flag"`
}

// Event is one entry of all_messages or last_event_per_type
type Event struct {
	ID         MessageID       `json:"id"`
	Type       string          `json:"type"`
	Text       string          `json:"text"`
	AuthorID   string          `json:"author_id"`
	CreatedAt  string          `json:"created_at"`
	Properties EventProperties `json:"properties"`
}

// EventProperties carries platform flags on an event
type EventProperties struct {
	LC2 struct {
		WelcomeMessage bool `json:"welcome_message"`
	} `json:"lc2"`
}

// Num is a number the platform sends either as a JSON number or a numeric string
type Num struct {
	V     float64
	Valid bool
}

// UnmarshalJSON accepts numbers, numeric strings and null; anything else decodes as invalid
func (n *Num) UnmarshalJSON(b []byte) error {
	*n = Num{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		*n = Num{V: v, Valid: true}
	}
	return nil
}

// Int returns the rounded value, or nil when missing
func (n Num) Int() *int {
	if !n.Valid {
		return nil
	}
	v := int(math.Round(n.V))
	return &v
}

// Message is one stored utterance; ThreadID is the chat_id column
type Message struct {
	ID         MessageID
	ThreadID   ThreadID
	AuthorID   string
	AuthorType AuthorType
	Text       string
	CreatedAt  time.Time
	IsSystem   bool

	// PlatformWelcome is the lc2.welcome_message flag; Welcome is the normalizer's verdict
	PlatformWelcome bool
	Welcome         bool
}

// Normalized is a container reduced to one thread identity and its messages
type Normalized struct {
	ThreadID             ThreadID
	ContainerID          ContainerID
	Status               Status
	Messages             []Message
	MessageCount         int
	AgentReplyCount      int
	CustomerMessageCount int
}

// Thread is the canonical stored row
type Thread struct {
	ID                ThreadID
	ChatID            ContainerID
	AgentName         string
	CustomerName      string
	CreatedAt         *time.Time
	EndedAt           *time.Time
	DurationSeconds   *int
	MessageCount      int
	Status            Status
	Analyzed          bool
	SyncedAt          time.Time
	FirstResponseTime *int
	RatingScore       *int
	RatingStatus      *string
	RatingComment     *string
	HasRatingComment  bool
	ComplaintFlag     bool
	ChatData          json.RawMessage

	// not stored
	Missed               bool
	AgentReplyCount      int
	CustomerMessageCount int
}
