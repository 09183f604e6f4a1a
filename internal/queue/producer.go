package queue

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"backend/internal/models"
)

// Producer publishes order-created events for downstream consumers (order
// confirmation emails, fulfilment). A nil Producer is valid and skips every
// publish, so the broker stays optional.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(broker, topic, username, password string) *Producer {
	if broker == "" {
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: 10 * time.Second,
	}

	if username != "" {
		writer.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: username, Password: password},
			TLS:  &tls.Config{},
		}
	}

	return &Producer{writer: writer}
}

type orderCreatedEvent struct {
	OrderNumber string    `json:"orderNumber"`
	UserID      string    `json:"userId"`
	Total       string    `json:"total"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PublishOrderCreated emits the event and only logs on failure; order
// creation never fails because the broker is down.
func (p *Producer) PublishOrderCreated(order models.Order) {
	if p == nil || p.writer == nil {
		return
	}

	event := orderCreatedEvent{
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.Hex(),
		Total:       order.Total.StringFixed(),
		CreatedAt:   order.CreatedAt,
	}

	value, err := json.Marshal(event)
	if err != nil {
		log.Println("[QUEUE] [ERROR] marshal order event failed:", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.OrderNumber),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		log.Println("[QUEUE] [ERROR] publish order event failed:", err)
		return
	}

	log.Println("[QUEUE] [INFO] order event published:", order.OrderNumber)
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
