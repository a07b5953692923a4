package events

import (
	"context"
	"testing"
	"time"
)

func TestFeedCollectsPublishedEvents(t *testing.T) {
	bus := NewDispatcher()
	feed := NewFeed(10)
	feed.Bind(bus, SolicitacaoCriada, SolicitacaoPrazoVencido)

	bus.Publish(context.Background(), Event{Type: SolicitacaoCriada, OccurredAt: time.Now(), Payload: "a"})
	bus.Publish(context.Background(), Event{Type: SolicitacaoPrazoVencido, OccurredAt: time.Now(), Payload: "b"})
	bus.Publish(context.Background(), Event{Type: ChatMensagem, OccurredAt: time.Now(), Payload: "ignorado"})

	recent := feed.Recent()
	if len(recent) != 2 {
		t.Fatalf("entradas = %d, esperadas 2", len(recent))
	}
	if recent[0].Tipo != SolicitacaoPrazoVencido {
		t.Fatalf("mais recente = %s, esperado %s", recent[0].Tipo, SolicitacaoPrazoVencido)
	}
	if recent[1].Tipo != SolicitacaoCriada {
		t.Fatalf("mais antiga = %s, esperado %s", recent[1].Tipo, SolicitacaoCriada)
	}
}

func TestFeedDropsOldestBeyondCapacity(t *testing.T) {
	bus := NewDispatcher()
	feed := NewFeed(3)
	feed.Bind(bus, ChatMensagem)

	for i := 0; i < 5; i++ {
		bus.Publish(context.Background(), Event{Type: ChatMensagem, OccurredAt: time.Now(), Payload: i})
	}

	recent := feed.Recent()
	if len(recent) != 3 {
		t.Fatalf("entradas = %d, esperadas 3", len(recent))
	}
	if recent[0].Payload != 4 {
		t.Fatalf("mais recente = %v, esperado 4", recent[0].Payload)
	}
	if recent[2].Payload != 2 {
		t.Fatalf("mais antiga retida = %v, esperado 2", recent[2].Payload)
	}
}
