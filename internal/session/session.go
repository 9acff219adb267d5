package session

import "github.com/google/uuid"

// Roles tagging transcript entries.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one transcript entry: a role and its text.
type Turn struct {
	Role string
	Text string
}

// Session is an append-only transcript of one interactive chat. It lives in
// memory for the lifetime of the session and is never persisted.
type Session struct {
	id    string
	turns []Turn
}

func New() *Session {
	return &Session{id: uuid.NewString()}
}

func (s *Session) ID() string {
	return s.id
}

// Record appends a question/answer exchange as two role-tagged entries,
// preserving chronological order.
func (s *Session) Record(question, answer string) {
	s.turns = append(s.turns,
		Turn{Role: RoleUser, Text: question},
		Turn{Role: RoleAssistant, Text: answer},
	)
}

// Turns returns the transcript in chronological order. The slice is a copy;
// the transcript itself cannot be mutated from outside.
func (s *Session) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Session) Len() int {
	return len(s.turns)
}
