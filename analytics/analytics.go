// Package analytics records page changes made through the navigator.
//
// It is the integration point the navigation state machine notifies: every
// successful transition becomes one row in the navigations table.
package analytics

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/lingloft/lingsite/nav"
)

// Event is one recorded navigation.
type Event struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	At        time.Time `json:"at"`
}

// Sink receives navigation events.
type Sink interface {
	Record(ctx context.Context, e Event) error
}

const recordTimeout = 2 * time.Second

// Recorder turns navigator changes into events.
type Recorder struct {
	sink   Sink
	logger *zap.Logger
	now    func() time.Time
}

// NewRecorder returns a Recorder writing to sink.
func NewRecorder(sink Sink, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{sink: sink, logger: logger, now: time.Now}
}

// Attach subscribes to n on behalf of sessionID. A failed write is logged and
// never surfaces to the navigation that caused it.
func (r *Recorder) Attach(n *nav.Navigator, sessionID string) (detach func()) {
	return n.Subscribe(func(c nav.Change) {
		at := r.now()
		e := Event{
			ID:        ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String(),
			SessionID: sessionID,
			From:      c.From,
			To:        c.To,
			At:        at,
		}
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := r.sink.Record(ctx, e); err != nil {
			r.logger.Warn("record navigation",
				zap.String("session", sessionID),
				zap.String("to", c.To),
				zap.Error(err))
		}
	})
}
