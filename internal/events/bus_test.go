package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingSubscriber struct {
	name string
	err  error

	mu     sync.Mutex
	events []ledger.Event
}

func (s *recordingSubscriber) Name() string { return s.name }

func (s *recordingSubscriber) Handle(ctx context.Context, event ledger.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSubscriber) Events() []ledger.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ledger.Event(nil), s.events...)
}

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func testEvent(name string, campaignID ledger.CampaignID) ledger.Event {
	return ledger.Event{
		ID:         uuid.New(),
		Name:       name,
		CampaignID: campaignID,
		Caller:     common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		Time:       1700,
		Data:       map[string]interface{}{"amount": "100"},
	}
}

func TestBusDeliversToAllSubscribers(t *testing.T) {
	first := &recordingSubscriber{name: "first"}
	second := &recordingSubscriber{name: "second"}

	bus, err := NewBus(4, &lib.LoggerMock{}, first, second)
	require.NoError(t, err)

	for i := 1; i <= 10; i++ {
		bus.Publish(context.Background(), testEvent(ledger.EventContributionReceived, ledger.CampaignID(i)))
	}
	bus.Close()

	require.Len(t, first.Events(), 10)
	require.Len(t, second.Events(), 10)
	require.Equal(t, Stats{Delivered: 20}, bus.Stats())
}

func TestBusCountsFailures(t *testing.T) {
	ok := &recordingSubscriber{name: "ok"}
	broken := &recordingSubscriber{name: "broken", err: errors.New("unreachable")}

	bus, err := NewBus(2, &lib.LoggerMock{}, ok, broken)
	require.NoError(t, err)

	bus.Publish(context.Background(), testEvent(ledger.EventCampaignCreated, 1))
	bus.Close()

	require.Equal(t, Stats{Delivered: 1, Failed: 1}, bus.Stats())
	require.Len(t, broken.Events(), 1)
}

func TestBusDeliversAfterRequestContextCancelled(t *testing.T) {
	sub := &recordingSubscriber{name: "sub"}
	bus, err := NewBus(1, &lib.LoggerMock{}, sub)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bus.Publish(ctx, testEvent(ledger.EventCampaignEnded, 3))
	bus.Close()

	require.Len(t, sub.Events(), 1)
}

func TestBusDropsAfterClose(t *testing.T) {
	sub := &recordingSubscriber{name: "sub"}
	bus, err := NewBus(1, &lib.LoggerMock{}, sub)
	require.NoError(t, err)
	bus.Close()

	bus.Publish(context.Background(), testEvent(ledger.EventPaused, 0))

	require.Empty(t, sub.Events())
	require.Equal(t, uint64(1), bus.Stats().Dropped)
}

func TestKafkaSubscriberWritesKeyedMessage(t *testing.T) {
	writer := &MockWriter{}
	event := testEvent(ledger.EventMilestoneReleased, 42)

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != "42" {
			return false
		}
		var msg Message
		if err := json.Unmarshal(msgs[0].Value, &msg); err != nil {
			return false
		}
		return msg.ID == event.ID.String() &&
			msg.Name == ledger.EventMilestoneReleased &&
			msg.CampaignID == 42 &&
			msg.Caller == event.Caller.Hex() &&
			msg.Time == 1700 &&
			msg.Data["amount"] == "100"
	})).Return(nil).Once()

	sub := NewKafkaSubscriberWithWriter(writer)
	require.NoError(t, sub.Handle(context.Background(), event))
	writer.AssertExpectations(t)
}

func TestKafkaSubscriberReturnsWriteError(t *testing.T) {
	writer := &MockWriter{}
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(kafka.LeaderNotAvailable).Once()
	writer.On("Close").Return(nil).Once()

	sub := NewKafkaSubscriberWithWriter(writer)
	err := sub.Handle(context.Background(), testEvent(ledger.EventRefundClaimed, 7))
	require.ErrorIs(t, err, kafka.LeaderNotAvailable)
	require.NoError(t, sub.Close())
	writer.AssertExpectations(t)
}

func TestNewKafkaSubscriberRequiresBrokers(t *testing.T) {
	_, err := NewKafkaSubscriber(nil, "ledger.events")
	require.ErrorIs(t, err, ErrNoBrokers)

	sub, err := NewKafkaSubscriber([]string{"localhost:9092"}, "ledger.events")
	require.NoError(t, err)
	require.Equal(t, "kafka", sub.Name())
}

func TestLogSubscriberWritesEvent(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := lib.NewLoggerMemory(lib.LoggerConfig{Level: "info"}, buf)
	require.NoError(t, err)

	sub := NewLogSubscriber(log.Named("EVENTS"))
	require.NoError(t, sub.Handle(context.Background(), testEvent(ledger.EventCampaignApproved, 5)))
	_ = log.Sync()

	require.Contains(t, buf.String(), "event campaign-approved campaign=5 caller=0x709..9C8")
}
