package post

import (
	"context"
	"time"

	"github.com/fp-foodie-finder/server/internal/kafka"
	"github.com/fp-foodie-finder/server/internal/metrics"
	"github.com/fp-foodie-finder/server/internal/shared/log"

	"github.com/sirupsen/logrus"
)

const (
	EventCreated = "post.created"
	EventReacted = "post.reacted"
	EventDeleted = "post.deleted"
)

type Event struct {
	Type     string    `json:"type"`
	PostID   string    `json:"postId"`
	UserID   string    `json:"userId"`
	Reaction string    `json:"reaction,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher announces post writes. Publishing never fails the write.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

type kafkaPublisher struct {
	w kafka.Writer
}

// NewPublisher returns a publisher backed by w, or one that drops events when
// w is nil.
func NewPublisher(w kafka.Writer) Publisher {
	if w == nil {
		return noopPublisher{}
	}
	return &kafkaPublisher{w: w}
}

func (p *kafkaPublisher) Publish(ctx context.Context, ev Event) {
	if err := p.w.WriteJSON(ctx, ev.PostID, ev); err != nil {
		metrics.PostEvents.WithLabelValues(ev.Type, "error").Inc()
		log.Log.WithError(err).WithFields(logrus.Fields{
			"type":    ev.Type,
			"post_id": ev.PostID,
		}).Warn("post event not published")
		return
	}
	metrics.PostEvents.WithLabelValues(ev.Type, "ok").Inc()
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) {}
