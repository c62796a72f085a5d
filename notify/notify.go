// Package notify surfaces short user-facing messages about the outcome of
// an action, such as a task update that was saved or rolled back.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// DefaultCapacity is how many notifications a Recorder keeps per user.
const DefaultCapacity = 50

type Notification struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Variant     Variant   `json:"variant"`
	CreatedAt   time.Time `json:"created_at"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Recorder keeps the most recent notifications of each user in memory and
// logs every one it receives.
type Recorder struct {
	capacity int
	now      func() time.Time
	logger   zerolog.Logger

	mu     sync.Mutex
	byUser map[uuid.UUID][]Notification
}

func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{
		capacity: capacity,
		now:      time.Now,
		logger:   log.With().Str("component", "notifier").Logger(),
		byUser:   map[uuid.UUID][]Notification{},
	}
}

func (r *Recorder) Notify(ctx context.Context, n Notification) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Variant == "" {
		n.Variant = VariantDefault
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.now().UTC()
	}

	event := r.logger.Info()
	if n.Variant == VariantDestructive {
		event = r.logger.Warn()
	}
	event.Str("userID", n.UserID.String()).Str("title", n.Title).Str("description", n.Description).Msg("Notification")

	r.mu.Lock()
	defer r.mu.Unlock()
	list := append(r.byUser[n.UserID], n)
	if len(list) > r.capacity {
		list = append([]Notification(nil), list[len(list)-r.capacity:]...)
	}
	r.byUser[n.UserID] = list
}

// Recent returns the user's notifications, newest first.
func (r *Recorder) Recent(userID uuid.UUID) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byUser[userID]
	out := make([]Notification, len(list))
	for i, n := range list {
		out[len(list)-1-i] = n
	}
	return out
}

// Discard drops every notification. It is used where no one is listening.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(context.Context, Notification) {}
