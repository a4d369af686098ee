// Package history keeps bounded per-conversation chat history in memory.
// State lives for the process lifetime only; restarts start empty.
package history

import "sync"

// Roles for a recorded turn. The Gemini wire format calls the assistant
// role "model"; that mapping happens in the provider, not here.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultMaxTurns is the history cap when none is configured.
const DefaultMaxTurns = 20

// Turn is one role-tagged message in a conversation.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Store maps conversation IDs to their recent turns. All methods are safe
// for concurrent use; webhook batches dispatch events on separate goroutines.
type Store struct {
	mu            sync.RWMutex
	conversations map[string][]Turn
	maxTurns      int
}

// NewStore creates a store capped at maxTurns per conversation.
func NewStore(maxTurns int) *Store {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Store{
		conversations: make(map[string][]Turn),
		maxTurns:      maxTurns,
	}
}

// Get returns a copy of the turns for id, oldest first. Unknown IDs
// return an empty history.
func (s *Store) Get(id string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.conversations[id]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Append records a turn for id, evicting the oldest turns once the
// conversation exceeds the cap.
func (s *Store) Append(id, role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := append(s.conversations[id], Turn{Role: role, Text: text})
	if over := len(turns) - s.maxTurns; over > 0 {
		turns = turns[over:]
	}
	s.conversations[id] = turns
}

// Clear drops the conversation entirely; the next Get starts fresh.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, id)
}

// Len reports the number of turns stored for id.
func (s *Store) Len(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations[id])
}
