// Package events agrupa los publishers de eventos de dominio.
package events

import "github.com/jhoicas/stock-ledger-api/internal/application/stock"

var _ stock.EventPublisher = (*NopPublisher)(nil)

// NopPublisher descarta los eventos. Se usa cuando no hay brokers configurados.
type NopPublisher struct{}

// NewNopPublisher construye el publisher nulo.
func NewNopPublisher() *NopPublisher {
	return &NopPublisher{}
}

// Publish no hace nada.
func (NopPublisher) Publish(string, any) error {
	return nil
}
