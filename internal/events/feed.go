package events

import (
	"context"
	"sync"
	"time"
)

// Notificacao é uma entrada do histórico de eventos consultado pelo painel.
type Notificacao struct {
	Tipo       Type      `json:"tipo"`
	OcorridoEm time.Time `json:"ocorrido_em"`
	Payload    any       `json:"payload"`
}

// Feed acumula os últimos eventos publicados no barramento. O painel
// administrativo consome via polling, sem canal de push.
type Feed struct {
	mu      sync.RWMutex
	entries []Notificacao
	max     int
}

// NewFeed cria feed limitado a max entradas; as mais antigas caem.
func NewFeed(max int) *Feed {
	if max <= 0 {
		max = 100
	}
	return &Feed{max: max}
}

// Bind assina os tipos informados no barramento.
func (f *Feed) Bind(bus *Dispatcher, types ...Type) {
	for _, t := range types {
		bus.Subscribe(t, func(ctx context.Context, event Event) {
			f.add(Notificacao{Tipo: event.Type, OcorridoEm: event.OccurredAt, Payload: event.Payload})
		})
	}
}

func (f *Feed) add(n Notificacao) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append(f.entries, n)
	if len(f.entries) > f.max {
		f.entries = f.entries[len(f.entries)-f.max:]
	}
}

// Recent devolve as entradas em ordem decrescente de chegada.
func (f *Feed) Recent() []Notificacao {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Notificacao, len(f.entries))
	for i, n := range f.entries {
		out[len(f.entries)-1-i] = n
	}
	return out
}
