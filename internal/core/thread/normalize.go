package thread

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	ptime "livetakip/internal/platform/time"
)

// ThreadIDOf returns the thread a container stands for: its last thread summary id, else the container id
func ThreadIDOf(c RawContainer) ThreadID {
	if s := c.Properties.FullChatData.LastThreadSummary; s != nil && s.ID != "" {
		return s.ID
	}
	return ThreadID(c.ID)
}

// StatusOf is archived only when the summary says the thread is no longer active
func StatusOf(c RawContainer) Status {
	if s := c.Properties.FullChatData.LastThreadSummary; s != nil && s.Active != nil && !*s.Active {
		return StatusArchived
	}
	return StatusActive
}

// Events returns the container's events: all_messages when present, else the last event of each type
func Events(c RawContainer) []Event {
	fd := c.Properties.FullChatData
	if len(fd.AllMessages) > 0 {
		return fd.AllMessages
	}
	if len(fd.LastEventPerType) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fd.LastEventPerType))
	for k := range fd.LastEventPerType {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Event, 0, len(keys))
	for _, k := range keys {
		if ev, ok := decodeEvent(fd.LastEventPerType[k]); ok {
			out = append(out, ev)
		}
	}
	// map iteration has no order; sort by time, then by key order kept above
	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := ptime.ParseStamp(out[i].CreatedAt)
		tj, _ := ptime.ParseStamp(out[j].CreatedAt)
		return ti.Before(tj)
	})
	return out
}

// decodeEvent accepts a bare event or one wrapped as {"event": {...}}
func decodeEvent(raw json.RawMessage) (Event, bool) {
	var wrapped struct {
		Event *Event `json:"event"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Event != nil {
		return *wrapped.Event, true
	}
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Event{}, false
	}
	return ev, true
}

// Normalize reduces a container to its thread identity, messages and role counts
func Normalize(c RawContainer) Normalized {
	n := Normalized{
		ThreadID:    ThreadIDOf(c),
		ContainerID: c.ID,
		Status:      StatusOf(c),
	}

	firstAgent := true
	for _, ev := range Events(c) {
		if ev.Text == "" {
			continue
		}
		at, _ := ptime.ParseStamp(ev.CreatedAt)

		switch ev.Type {
		case EventMessage:
			m := Message{
				ID:              messageID(n.ThreadID, ev),
				ThreadID:        n.ThreadID,
				AuthorID:        ev.AuthorID,
				AuthorType:      AuthorCustomer,
				Text:            ev.Text,
				CreatedAt:       at,
				PlatformWelcome: ev.Properties.LC2.WelcomeMessage,
			}
			if strings.Contains(ev.AuthorID, "@") {
				m.AuthorType = AuthorAgent
				m.Welcome = IsWelcome(m.PlatformWelcome, m.Text, firstAgent)
				firstAgent = false
				if !m.Welcome {
					n.AgentReplyCount++
				}
			} else {
				n.CustomerMessageCount++
			}
			n.MessageCount++
			n.Messages = append(n.Messages, m)

		case EventSystemMessage:
			n.Messages = append(n.Messages, Message{
				ID:         messageID(n.ThreadID, ev),
				ThreadID:   n.ThreadID,
				AuthorID:   "system",
				AuthorType: AuthorSystem,
				Text:       ev.Text,
				CreatedAt:  at,
				IsSystem:   true,
			})
		}
	}
	return n
}

// messageID falls back to a stable synthetic id for events the platform sent without one
func messageID(tid ThreadID, ev Event) MessageID {
	if ev.ID != "" {
		return ev.ID
	}
	return MessageID(string(tid) + ":" + ev.Type + ":" + ev.CreatedAt)
}

// CreatedAt parses the container creation stamp
func CreatedAt(c RawContainer) (time.Time, bool) { return ptime.ParseStamp(c.CreatedAt) }
