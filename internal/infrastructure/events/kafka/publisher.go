// Package kafka publica eventos de dominio en un cluster Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
)

var _ stock.EventPublisher = (*Publisher)(nil)

// Publisher implementación del puerto EventPublisher sobre segmentio/kafka-go.
// El writer no fija topic: cada Publish indica el suyo en el mensaje.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher construye el publisher apuntando a los brokers dados.
func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish serializa el evento como JSON y lo escribe en el topic indicado.
func (p *Publisher) Publish(topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.writer.WriteMessages(context.Background(), kafka.Message{
		Topic: topic,
		Value: data,
	}); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// Close cierra el writer y drena los mensajes pendientes.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
