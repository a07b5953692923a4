package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Handler processa um evento publicado.
type Handler func(ctx context.Context, event Event)

// Dispatcher é o barramento interno de notificações: substitui os timers
// ad-hoc por componente por um único ponto de assinatura.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

// NewDispatcher cria barramento vazio.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Type][]Handler)}
}

// Subscribe registra handler para o tipo informado.
func (d *Dispatcher) Subscribe(t Type, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[t] = append(d.handlers[t], h)
}

// Publish entrega o evento de forma síncrona a todos os assinantes.
// Panics em handlers não derrubam o chamador.
func (d *Dispatcher) Publish(ctx context.Context, event Event) {
	d.mu.RLock()
	handlers := append([]Handler(nil), d.handlers[event.Type]...)
	d.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().Interface("panic", rec).Str("event", string(event.Type)).Msg("handler de evento em panic")
				}
			}()
			h(ctx, event)
		}()
	}
}
