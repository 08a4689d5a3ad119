package bot

import (
	"sync"
	"time"
)

// Message roles stored in a conversation.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Message is one turn of a conversation.
type Message struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

type session struct {
	messages []Message
	lastSeen time.Time
}

// Conversations keeps per-session chat history in memory. History is
// display state only; the engine matches each query independently.
// Sessions idle longer than the TTL are removed by Sweep.
type Conversations struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
}

// NewConversations creates a conversation store with the given idle TTL.
func NewConversations(ttl time.Duration) *Conversations {
	return &Conversations{
		sessions: make(map[string]*session),
		ttl:      ttl,
	}
}

// Append adds a message to the session's history, creating the session
// if needed. Empty session IDs are ignored.
func (c *Conversations) Append(sessionID, role, text string) {
	if sessionID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[sessionID]
	if !ok {
		s = &session{}
		c.sessions[sessionID] = s
	}
	s.messages = append(s.messages, Message{Role: role, Text: text, Time: time.Now()})
	s.lastSeen = time.Now()
}

// History returns a copy of the session's messages in order. Unknown
// sessions yield nil.
func (c *Conversations) History(sessionID string) []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.sessions[sessionID]
	if !ok {
		return nil
	}
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Clear removes the session's history.
func (c *Conversations) Clear(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
}

// Sweep removes sessions idle longer than the TTL and returns how many
// were removed. Intended to run periodically from a background job.
func (c *Conversations) Sweep() int {
	cutoff := time.Now().Add(-c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, s := range c.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(c.sessions, id)
			removed++
		}
	}
	return removed
}

// ActiveSessions returns the number of sessions currently held.
func (c *Conversations) ActiveSessions() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}
