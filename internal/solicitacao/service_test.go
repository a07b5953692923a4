package solicitacao

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prefeiturafeijo/servicedesk/internal/events"
	"github.com/prefeiturafeijo/servicedesk/internal/util"
)

type stubStore struct {
	created      *CreateInput
	current      *Solicitacao
	aceitar      *AceitarParams
	setStatus    string
	messageSaved bool
	getErr       error
}

func (s *stubStore) Create(_ context.Context, input CreateInput) (*Solicitacao, error) {
	s.created = &input
	return &Solicitacao{
		ID:           uuid.New(),
		Protocolo:    input.Protocolo,
		Secretaria:   input.Secretaria,
		Funcao:       input.Funcao,
		Nome:         input.Nome,
		Endereco:     input.Endereco,
		Descricao:    input.Descricao,
		DataRegistro: input.DataRegistro,
		Prazo:        input.Prazo,
		Status:       StatusAguardando,
	}, nil
}

func (s *stubStore) Get(_ context.Context, _ uuid.UUID) (*Solicitacao, error) {
	return s.current, s.getErr
}

func (s *stubStore) GetByProtocolo(_ context.Context, _ string) (*Solicitacao, error) {
	return s.current, s.getErr
}

func (s *stubStore) List(_ context.Context, _ Filter) ([]Solicitacao, error) {
	return nil, nil
}

func (s *stubStore) ListVencidas(_ context.Context) ([]Solicitacao, error) {
	return nil, nil
}

func (s *stubStore) Update(_ context.Context, _ uuid.UUID, _ UpdateInput) (*Solicitacao, error) {
	return s.current, nil
}

func (s *stubStore) Aceitar(_ context.Context, _ uuid.UUID, input AceitarParams) (*Solicitacao, error) {
	s.aceitar = &input
	out := *s.current
	out.Status = StatusAceita
	out.Prazo = input.Prazo
	return &out, nil
}

func (s *stubStore) SetStatus(_ context.Context, _ uuid.UUID, status string) (*Solicitacao, error) {
	s.setStatus = status
	out := *s.current
	out.Status = status
	return &out, nil
}

func (s *stubStore) SetLocked(_ context.Context, _ uuid.UUID, locked bool) (*Solicitacao, error) {
	out := *s.current
	out.Locked = locked
	return &out, nil
}

func (s *stubStore) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (s *stubStore) CreateMessage(_ context.Context, id uuid.UUID, senderID, senderType, message string) (*ChatMessage, error) {
	s.messageSaved = true
	return &ChatMessage{
		ID:            uuid.New(),
		SolicitacaoID: id,
		SenderID:      senderID,
		SenderType:    senderType,
		Message:       message,
		Timestamp:     time.Now(),
	}, nil
}

func (s *stubStore) ListMessages(_ context.Context, _ uuid.UUID) ([]ChatMessage, error) {
	return nil, nil
}

func (s *stubStore) MarkMessagesRead(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}

type stubCalendar struct{}

func (stubCalendar) AddBusinessDays(_ context.Context, from time.Time, days int) (time.Time, error) {
	return from.AddDate(0, 0, days), nil
}

func validInput() CreateInput {
	return CreateInput{
		Secretaria: "Secretaria Municipal de Saúde",
		Funcao:     "Enfermeiro",
		Nome:       "Maria Silva",
		Endereco:   "Posto Central",
		Descricao:  "Computador da recepção não liga",
	}
}

func TestCreateFillsProtocoloAndPrazo(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, stubCalendar{}, nil)
	fixed := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !strings.HasPrefix(created.Protocolo, "OS-2026-") {
		t.Fatalf("protocolo = %q, esperado prefixo OS-2026-", created.Protocolo)
	}
	if created.Status != StatusAguardando {
		t.Fatalf("status = %q, esperado %q", created.Status, StatusAguardando)
	}
	wantPrazo := fixed.AddDate(0, 0, 3)
	if !store.created.Prazo.Equal(wantPrazo) {
		t.Fatalf("prazo = %v, esperado %v", store.created.Prazo, wantPrazo)
	}
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc := NewService(&stubStore{}, stubCalendar{}, nil)

	input := validInput()
	input.Descricao = "  "
	if _, err := svc.Create(context.Background(), input); err == nil {
		t.Fatal("esperado erro para descrição vazia")
	}
}

func TestCreatePublishesEvent(t *testing.T) {
	bus := events.NewDispatcher()
	var got []events.Type
	bus.Subscribe(events.SolicitacaoCriada, func(_ context.Context, e events.Event) {
		got = append(got, e.Type)
	})

	svc := NewService(&stubStore{}, stubCalendar{}, bus)
	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(got) != 1 || got[0] != events.SolicitacaoCriada {
		t.Fatalf("eventos publicados = %v", got)
	}
}

func TestAceitarSetsPrazo72h(t *testing.T) {
	store := &stubStore{current: &Solicitacao{ID: uuid.New(), Status: StatusAguardando}}
	svc := NewService(store, stubCalendar{}, nil)
	fixed := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	agendamento := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Aceitar(context.Background(), store.current.ID, agendamento, NivelI, nil)
	if err != nil {
		t.Fatalf("Aceitar: %v", err)
	}

	want := fixed.Add(72 * time.Hour)
	if !updated.Prazo.Equal(want) {
		t.Fatalf("prazo = %v, esperado %v", updated.Prazo, want)
	}
	if !store.aceitar.AceitaEm.Equal(fixed) {
		t.Fatalf("aceita_em = %v, esperado %v", store.aceitar.AceitaEm, fixed)
	}
}

func TestAceitarValidations(t *testing.T) {
	store := &stubStore{current: &Solicitacao{ID: uuid.New(), Status: StatusAguardando}}
	svc := NewService(store, stubCalendar{}, nil)
	agendamento := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)

	if _, err := svc.Aceitar(context.Background(), store.current.ID, agendamento, "Nivel III", nil); !errors.Is(err, ErrInvalidNivel) {
		t.Fatalf("nível inválido: err = %v", err)
	}

	if _, err := svc.Aceitar(context.Background(), store.current.ID, time.Time{}, NivelI, nil); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("agendamento vazio: esperado erro de validação, veio %v", err)
	}

	store.current.Status = StatusResolvida
	if _, err := svc.Aceitar(context.Background(), store.current.ID, agendamento, NivelI, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("transição inválida: err = %v", err)
	}
}

func TestTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		call    func(*Service, uuid.UUID) error
		wantErr bool
	}{
		{"cancelar aguardando", StatusAguardando, callCancelar, false},
		{"cancelar aceita", StatusAceita, callCancelar, false},
		{"cancelar resolvida", StatusResolvida, callCancelar, true},
		{"resolver aceita", StatusAceita, callResolver, false},
		{"resolver aguardando", StatusAguardando, callResolver, true},
		{"resolver cancelada", StatusCancelada, callResolver, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubStore{current: &Solicitacao{ID: uuid.New(), Status: tc.from}}
			svc := NewService(store, stubCalendar{}, nil)

			err := tc.call(svc, store.current.ID)
			if tc.wantErr && !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("esperado ErrInvalidTransition, veio %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("transição válida falhou: %v", err)
			}
		})
	}
}

func callCancelar(s *Service, id uuid.UUID) error {
	_, err := s.Cancelar(context.Background(), id)
	return err
}

func callResolver(s *Service, id uuid.UUID) error {
	_, err := s.Resolver(context.Background(), id)
	return err
}

func TestAddMessageLockedBlocksUser(t *testing.T) {
	store := &stubStore{current: &Solicitacao{ID: uuid.New(), Status: StatusAceita, Locked: true}}
	svc := NewService(store, stubCalendar{}, nil)

	_, err := svc.AddMessage(context.Background(), store.current.ID, "", SenderUser, "olá?")
	if !errors.Is(err, ErrChatLocked) {
		t.Fatalf("esperado ErrChatLocked, veio %v", err)
	}
	if store.messageSaved {
		t.Fatal("mensagem não deveria ter sido persistida")
	}

	// administrador continua podendo responder
	if _, err := svc.AddMessage(context.Background(), store.current.ID, "admin-1", SenderAdmin, "resolvido"); err != nil {
		t.Fatalf("admin bloqueado indevidamente: %v", err)
	}
}

func TestAddMessageRejectsInvalidSender(t *testing.T) {
	store := &stubStore{current: &Solicitacao{ID: uuid.New(), Status: StatusAguardando}}
	svc := NewService(store, stubCalendar{}, nil)

	if _, err := svc.AddMessage(context.Background(), store.current.ID, "", "bot", "oi"); !errors.Is(err, ErrInvalidSender) {
		t.Fatalf("esperado ErrInvalidSender, veio %v", err)
	}
}
