package events

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/segmentio/kafka-go"
)

var ErrNoBrokers = errors.New("kafka subscriber requires at least one broker")

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Message is the wire format of an event
type Message struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	CampaignID uint64                 `json:"campaignId"`
	Caller     string                 `json:"caller"`
	Time       uint64                 `json:"time"`
	Data       map[string]interface{} `json:"data"`
}

func NewMessage(event ledger.Event) Message {
	return Message{
		ID:         event.ID.String(),
		Name:       event.Name,
		CampaignID: uint64(event.CampaignID),
		Caller:     event.Caller.Hex(),
		Time:       uint64(event.Time),
		Data:       event.Data,
	}
}

// KafkaSubscriber publishes events keyed by campaign id, so a campaign's events share a partition
type KafkaSubscriber struct {
	writer MessageWriter
}

func NewKafkaSubscriber(brokers []string, topic string) (*KafkaSubscriber, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	return NewKafkaSubscriberWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.Hash{},
	}), nil
}

func NewKafkaSubscriberWithWriter(writer MessageWriter) *KafkaSubscriber {
	return &KafkaSubscriber{writer: writer}
}

func (s *KafkaSubscriber) Name() string {
	return "kafka"
}

func (s *KafkaSubscriber) Handle(ctx context.Context, event ledger.Event) error {
	payload, err := json.Marshal(NewMessage(event))
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.CampaignID), 10)),
		Value: payload,
		Time:  time.Now().UTC(),
	})
}

func (s *KafkaSubscriber) Close() error {
	return s.writer.Close()
}
