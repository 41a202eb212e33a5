package events

import (
	"context"
	"errors"
	"testing"

	"github.com/euvalley/directory/internal/directory/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing.
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestProducer(logger *zap.Logger, writer KafkaWriter) *Producer {
	return &Producer{
		writer:    writer,
		events:    make(chan Event, 1000),
		logger:    logger.Named("audit_producer"),
		closeChan: make(chan struct{}),
	}
}

func TestProducer_Produce(t *testing.T) {
	t.Run("successful produce", func(t *testing.T) {
		logger := zaptest.NewLogger(t)
		producer := newTestProducer(logger, new(MockKafkaWriter))
		record := &models.Company{ID: "acme-1700000000000"}

		producer.Produce(RecordCreated, record)

		assert.Equal(t, 1, len(producer.events))
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		logger := zap.New(core)
		producer := newTestProducer(logger, new(MockKafkaWriter))
		producer.events = make(chan Event, 1) // Small buffer for test
		record := &models.Company{ID: "acme-1700000000000"}

		producer.Produce(RecordCreated, record)
		producer.Produce(RecordHidden, record) // This should be dropped

		assert.Equal(t, 1, recorded.FilterMessage("audit producer queue full, dropping event").Len())
	})
}

func TestProducer_SendEvent(t *testing.T) {
	record := &models.Company{ID: "acme-1700000000000", Name: "Acme"}

	t.Run("writes keyed by record id", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := newTestProducer(zaptest.NewLogger(t), mockWriter)

		mockWriter.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
			return len(msgs) == 1 && string(msgs[0].Key) == record.ID
		})).Return(nil)

		producer.sendEvent(context.Background(), Event{Type: RecordCreated, Record: record})
		mockWriter.AssertExpectations(t)
	})

	t.Run("write failure is logged, not returned", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		producer := newTestProducer(zap.New(core), mockWriter)

		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down"))

		producer.sendEvent(context.Background(), Event{Type: RecordDeleted, Record: record})
		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestProducer_Close(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("Close").Return(nil)
	producer := newTestProducer(zaptest.NewLogger(t), mockWriter)

	producer.Close()
	mockWriter.AssertExpectations(t)
}
