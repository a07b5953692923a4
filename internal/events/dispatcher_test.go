package events

import (
	"context"
	"testing"
	"time"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewDispatcher()

	var received []Event
	bus.Subscribe(SolicitacaoCriada, func(_ context.Context, e Event) {
		received = append(received, e)
	})
	bus.Subscribe(SolicitacaoCriada, func(_ context.Context, e Event) {
		received = append(received, e)
	})

	bus.Publish(context.Background(), Event{Type: SolicitacaoCriada, OccurredAt: time.Now(), Payload: "x"})

	if len(received) != 2 {
		t.Fatalf("entregas = %d, esperadas 2", len(received))
	}
}

func TestPublishIgnoresOtherTypes(t *testing.T) {
	bus := NewDispatcher()

	called := false
	bus.Subscribe(ChatMensagem, func(_ context.Context, _ Event) { called = true })

	bus.Publish(context.Background(), Event{Type: SolicitacaoStatus})

	if called {
		t.Fatal("handler de outro tipo não deveria ser chamado")
	}
}

func TestPanicInHandlerDoesNotPropagate(t *testing.T) {
	bus := NewDispatcher()

	bus.Subscribe(SupportMensagem, func(_ context.Context, _ Event) {
		panic("handler quebrado")
	})
	delivered := false
	bus.Subscribe(SupportMensagem, func(_ context.Context, _ Event) {
		delivered = true
	})

	bus.Publish(context.Background(), Event{Type: SupportMensagem})

	if !delivered {
		t.Fatal("panic em um handler não pode impedir os demais")
	}
}
