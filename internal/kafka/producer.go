package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	kgo "github.com/segmentio/kafka-go"
)

type Writer interface {
	WriteJSON(ctx context.Context, key string, v any) error
	Close() error
}

type writer struct {
	w *kgo.Writer
}

// NewWriter creates a writer for topic on the comma separated broker list.
func NewWriter(bootstrapServers, topic string) (Writer, error) {
	var addrs []string
	for _, a := range strings.Split(bootstrapServers, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	if len(addrs) == 0 {
		return nil, errors.New("kafka: no bootstrap servers")
	}
	w := &kgo.Writer{
		Addr:                   kgo.TCP(addrs...),
		Topic:                  topic,
		Balancer:               &kgo.Hash{},
		RequiredAcks:           kgo.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &writer{w: w}, nil
}

func (wr *writer) WriteJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "kafka: encode")
	}
	msg := kgo.Message{Key: []byte(key), Value: b, Time: time.Now()}
	return errors.Wrap(wr.w.WriteMessages(ctx, msg), "kafka: write")
}

func (wr *writer) Close() error { return wr.w.Close() }
