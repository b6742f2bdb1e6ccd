package storage

import (
	"context"
	"encoding/json"

	"burger-storefront/internal/domain"

	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaActionLog streams dispatched actions to a topic, keyed by slice so
// each container's transitions stay ordered within a partition.
type KafkaActionLog struct {
	Writer MessageWriter
	Source string
}

func NewKafkaActionLog(writer MessageWriter, source string) *KafkaActionLog {
	return &KafkaActionLog{Writer: writer, Source: source}
}

type actionMessage struct {
	Source string        `json:"source"`
	Action domain.Action `json:"action"`
}

func (l *KafkaActionLog) PublishAction(ctx context.Context, action domain.Action) error {
	payload, err := json.Marshal(actionMessage{Source: l.Source, Action: action})
	if err != nil {
		return err
	}
	return l.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(action.Slice()),
		Value: payload,
		Time:  action.At,
	})
}
