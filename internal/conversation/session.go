// Package conversation runs the chat transcript: each user message becomes a
// scoped catalog search answered by a bot message carrying the hits.
package conversation

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smhrd/smartsearch/internal/models"
	"github.com/smhrd/smartsearch/internal/search"
)

// Greeting opens every transcript
const Greeting = "안녕하세요! 무엇을 도와드릴까요?"

// ReplyDelay is how long the bot shows as typing before answering
const ReplyDelay = 800 * time.Millisecond

// FileSource supplies the flat file list
type FileSource interface {
	Files() []models.FileRecord
}

// FolderScope supplies the folder tree and the current folder selection
type FolderScope interface {
	Tree() []*models.FolderNode
	Selected() []string
}

// History records sent queries
type History interface {
	RecordQuery(query string) error
}

// Session is one chat transcript
type Session struct {
	files    FileSource
	scope    FolderScope
	history  History
	limit    int
	now      func() time.Time
	messages []models.ChatMessage
}

// Option configures a Session
type Option func(*Session)

// WithHistory records every query sent
func WithHistory(h History) Option {
	return func(s *Session) { s.history = h }
}

// WithLimit caps results per answer
func WithLimit(n int) Option {
	return func(s *Session) { s.limit = n }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession starts a transcript with the greeting. scope may be nil for an
// unscoped search.
func NewSession(files FileSource, scope FolderScope, opts ...Option) *Session {
	s := &Session{files: files, scope: scope, limit: search.DefaultLimit, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	s.messages = []models.ChatMessage{s.message(models.MessageBot, Greeting, nil)}
	return s
}

func (s *Session) message(typ models.MessageType, content string, files []models.FileRecord) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.NewString(),
		Type:      typ,
		Content:   content,
		Files:     files,
		Timestamp: s.now(),
	}
}

// Messages returns the transcript, oldest first
func (s *Session) Messages() []models.ChatMessage {
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Ask appends the user's message and returns it. Blank input is ignored and
// ok is false.
func (s *Session) Ask(input string) (msg models.ChatMessage, ok bool) {
	if strings.TrimSpace(input) == "" {
		return models.ChatMessage{}, false
	}
	msg = s.message(models.MessageUser, input, nil)
	s.messages = append(s.messages, msg)
	if s.history != nil {
		if err := s.history.RecordQuery(input); err != nil {
			slog.Warn("record query", "err", err)
		}
	}
	return msg, true
}

// Answer searches for query within the current folder selection and appends
// the bot reply
func (s *Session) Answer(query string) models.ChatMessage {
	opts := search.Options{Limit: s.limit}
	if s.scope != nil {
		opts.Tree = s.scope.Tree()
		opts.FolderIDs = s.scope.Selected()
	}
	hits := search.Files(search.Search(query, s.files.Files(), opts))
	reply := s.message(models.MessageBot, Reply(query, len(hits)), hits)
	s.messages = append(s.messages, reply)
	return reply
}

// Send is Ask followed by Answer
func (s *Session) Send(input string) (models.ChatMessage, bool) {
	if _, ok := s.Ask(input); !ok {
		return models.ChatMessage{}, false
	}
	return s.Answer(input), true
}

// Reply formats the bot's answer for n hits
func Reply(query string, n int) string {
	if n == 0 {
		return fmt.Sprintf("\"%s\" 관련 결과가 없습니다. 다른 키워드로 시도해보세요.", query)
	}
	return fmt.Sprintf("\"%s\" 관련 %d개의 파일을 찾았습니다.", query, n)
}

// Reset clears the transcript back to the greeting
func (s *Session) Reset() {
	s.messages = []models.ChatMessage{s.message(models.MessageBot, Greeting, nil)}
}
