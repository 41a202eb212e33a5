// Package events publishes audit events for directory mutations to
// Kafka. Production is non-blocking: events flow through a buffered
// channel and are dropped (with a warning) when the queue is full, so
// the store never stalls on the broker.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/euvalley/directory/internal/directory/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	RecordCreated EventType = "record_created"
	RecordUpdated EventType = "record_updated"
	RecordDeleted EventType = "record_deleted"
	RecordHidden  EventType = "record_hidden"
	RecordShown   EventType = "record_shown"
)

type Event struct {
	Type       EventType
	Record     *models.Company
	OccurredAt time.Time
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}

	if err := conn.CreateTopics(topicConfigs...); err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	p := &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		events:    make(chan Event, 1000),
		logger:    logger.Named("audit_producer"),
		closeChan: make(chan struct{}),
	}

	go p.eventLoop()
	return p, nil
}

func (p *Producer) Produce(eventType EventType, record *models.Company) {
	select {
	case p.events <- Event{Type: eventType, Record: record, OccurredAt: time.Now().UTC()}:
	default:
		p.logger.Warn("audit producer queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("record_id", record.ID),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("record_id", event.Record.ID),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Record.ID),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("record_id", event.Record.ID),
		)
		return
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
