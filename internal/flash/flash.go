// Package flash delivers editor-facing notices.
package flash

import (
	"sync"

	"github.com/rs/zerolog"
)

// Notifier receives notices produced while assembling an edit form.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// Message is one collected notice.
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Bag collects notices for the duration of one request.
type Bag struct {
	mu   sync.Mutex
	msgs []Message
}

func NewBag() *Bag { return &Bag{} }

func (b *Bag) Info(msg string)  { b.add("info", msg) }
func (b *Bag) Error(msg string) { b.add("error", msg) }

func (b *Bag) add(level, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, Message{Level: level, Text: msg})
}

// Messages returns the notices collected so far.
func (b *Bag) Messages() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.msgs...)
}

// Logger is a Notifier that writes notices to the service log, for callers
// with no user-facing flash channel.
type Logger struct {
	log zerolog.Logger
}

func NewLogger(log zerolog.Logger) *Logger { return &Logger{log: log} }

func (l *Logger) Info(msg string)  { l.log.Info().Str("flash", "info").Msg(msg) }
func (l *Logger) Error(msg string) { l.log.Error().Str("flash", "error").Msg(msg) }
