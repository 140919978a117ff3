package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta la unidad de trabajo con una sesión que sostiene los locks por par
// hasta el final de Run. No hay rollback: los casos de uso escriben como último paso,
// así que un error previo no deja asientos parciales y CreateAll ya es todo-o-nada.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con un ledger atado a una sesión nueva y libera los locks al salir.
func (r *TxRunner) Run(_ context.Context, fn func(ledger repository.StockLedgerRepository) error) error {
	session := &txSession{store: r.store, held: make(map[pairKey]bool)}
	defer session.release()
	return fn(&StockLedgerRepo{s: r.store, session: session})
}

// txSession acumula los mutex de par tomados durante una unidad de trabajo.
type txSession struct {
	store  *Store
	locked []*sync.Mutex
	held   map[pairKey]bool
}

func (s *txSession) lockPair(k pairKey) {
	if s.held[k] {
		return
	}
	mu := s.store.pairLock(k)
	mu.Lock()
	s.locked = append(s.locked, mu)
	s.held[k] = true
}

func (s *txSession) release() {
	for i := len(s.locked) - 1; i >= 0; i-- {
		s.locked[i].Unlock()
	}
	s.locked = nil
}
