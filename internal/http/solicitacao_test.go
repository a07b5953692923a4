package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prefeiturafeijo/servicedesk/internal/solicitacao"
)

type stubTicketStore struct {
	current      *solicitacao.Solicitacao
	messageSaved bool
	deleteCalled bool
	deleteErr    error
}

func (s *stubTicketStore) Create(_ context.Context, input solicitacao.CreateInput) (*solicitacao.Solicitacao, error) {
	return &solicitacao.Solicitacao{
		ID:         uuid.New(),
		Protocolo:  input.Protocolo,
		Secretaria: input.Secretaria,
		Status:     solicitacao.StatusAguardando,
	}, nil
}

func (s *stubTicketStore) Get(_ context.Context, _ uuid.UUID) (*solicitacao.Solicitacao, error) {
	if s.current == nil {
		return nil, solicitacao.ErrNotFound
	}
	return s.current, nil
}

func (s *stubTicketStore) GetByProtocolo(_ context.Context, _ string) (*solicitacao.Solicitacao, error) {
	if s.current == nil {
		return nil, solicitacao.ErrNotFound
	}
	return s.current, nil
}

func (s *stubTicketStore) List(_ context.Context, _ solicitacao.Filter) ([]solicitacao.Solicitacao, error) {
	if s.current == nil {
		return nil, nil
	}
	return []solicitacao.Solicitacao{*s.current}, nil
}

func (s *stubTicketStore) ListVencidas(_ context.Context) ([]solicitacao.Solicitacao, error) {
	return nil, nil
}

func (s *stubTicketStore) Update(_ context.Context, _ uuid.UUID, _ solicitacao.UpdateInput) (*solicitacao.Solicitacao, error) {
	return s.current, nil
}

func (s *stubTicketStore) Aceitar(_ context.Context, _ uuid.UUID, input solicitacao.AceitarParams) (*solicitacao.Solicitacao, error) {
	out := *s.current
	out.Status = solicitacao.StatusAceita
	out.Prazo = input.Prazo
	return &out, nil
}

func (s *stubTicketStore) SetStatus(_ context.Context, _ uuid.UUID, status string) (*solicitacao.Solicitacao, error) {
	out := *s.current
	out.Status = status
	return &out, nil
}

func (s *stubTicketStore) SetLocked(_ context.Context, _ uuid.UUID, locked bool) (*solicitacao.Solicitacao, error) {
	out := *s.current
	out.Locked = locked
	return &out, nil
}

func (s *stubTicketStore) Delete(_ context.Context, _ uuid.UUID) error {
	s.deleteCalled = true
	return s.deleteErr
}

func (s *stubTicketStore) CreateMessage(_ context.Context, id uuid.UUID, senderID, senderType, message string) (*solicitacao.ChatMessage, error) {
	s.messageSaved = true
	return &solicitacao.ChatMessage{
		ID:            uuid.New(),
		SolicitacaoID: id,
		SenderID:      senderID,
		SenderType:    senderType,
		Message:       message,
		Timestamp:     time.Now(),
	}, nil
}

func (s *stubTicketStore) ListMessages(_ context.Context, _ uuid.UUID) ([]solicitacao.ChatMessage, error) {
	return nil, nil
}

func (s *stubTicketStore) MarkMessagesRead(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}

type fixedCalendar struct{}

func (fixedCalendar) AddBusinessDays(_ context.Context, from time.Time, days int) (time.Time, error) {
	return from.AddDate(0, 0, days), nil
}

func newTicketHandler(store *stubTicketStore) (*Handler, chi.Router) {
	h := &Handler{tickets: solicitacao.NewService(store, fixedCalendar{}, nil)}

	r := chi.NewRouter()
	r.Get("/solicitacoes/{id}", h.GetSolicitacao)
	r.Delete("/solicitacoes/{id}", h.DeleteSolicitacao)
	r.Post("/solicitacoes/{id}/mensagens", h.SendTicketMessage)
	r.Post("/solicitacoes/{id}/aceitar", h.AceitarSolicitacao)
	r.Post("/solicitacoes/{id}/resolver", h.ResolverSolicitacao)
	return h, r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return envelope.Error.Code
}

func TestGetSolicitacaoInvalidID(t *testing.T) {
	_, router := newTicketHandler(&stubTicketStore{})

	req := httptest.NewRequest(http.MethodGet, "/solicitacoes/nao-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", rec.Code)
	}
	if code := decodeError(t, rec); code != "VALIDATION" {
		t.Fatalf("code = %q", code)
	}
}

func TestGetSolicitacaoNotFound(t *testing.T) {
	_, router := newTicketHandler(&stubTicketStore{})

	req := httptest.NewRequest(http.MethodGet, "/solicitacoes/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, esperado 404", rec.Code)
	}
}

func TestSendTicketMessageLockedReturns403(t *testing.T) {
	store := &stubTicketStore{current: &solicitacao.Solicitacao{
		ID:     uuid.New(),
		Status: solicitacao.StatusAceita,
		Locked: true,
	}}
	_, router := newTicketHandler(store)

	body := strings.NewReader(`{"mensagem":"alguém aí?"}`)
	req := httptest.NewRequest(http.MethodPost, "/solicitacoes/"+store.current.ID.String()+"/mensagens", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, esperado 403", rec.Code)
	}
	if store.messageSaved {
		t.Fatal("mensagem não deveria ser persistida com chat bloqueado")
	}
}

func TestSendTicketMessageEmptyReturns400(t *testing.T) {
	store := &stubTicketStore{current: &solicitacao.Solicitacao{
		ID:     uuid.New(),
		Status: solicitacao.StatusAguardando,
	}}
	_, router := newTicketHandler(store)

	body := strings.NewReader(`{"mensagem":"   "}`)
	req := httptest.NewRequest(http.MethodPost, "/solicitacoes/"+store.current.ID.String()+"/mensagens", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", rec.Code)
	}
	if code := decodeError(t, rec); code != "VALIDATION" {
		t.Fatalf("code = %q, esperado VALIDATION", code)
	}
	if store.messageSaved {
		t.Fatal("mensagem vazia não deveria ser persistida")
	}
}

func TestAceitarSemAgendamentoReturns400(t *testing.T) {
	store := &stubTicketStore{current: &solicitacao.Solicitacao{
		ID:     uuid.New(),
		Status: solicitacao.StatusAguardando,
	}}
	_, router := newTicketHandler(store)

	body := strings.NewReader(`{"nivel":"Nivel I"}`)
	req := httptest.NewRequest(http.MethodPost, "/solicitacoes/"+store.current.ID.String()+"/aceitar", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", rec.Code)
	}
	if code := decodeError(t, rec); code != "VALIDATION" {
		t.Fatalf("code = %q, esperado VALIDATION", code)
	}
}

func TestDeleteSolicitacaoCallsStore(t *testing.T) {
	store := &stubTicketStore{current: &solicitacao.Solicitacao{
		ID:     uuid.New(),
		Status: solicitacao.StatusAguardando,
	}}
	_, router := newTicketHandler(store)

	req := httptest.NewRequest(http.MethodDelete, "/solicitacoes/"+store.current.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}
	if !store.deleteCalled {
		t.Fatal("Delete do store não foi chamado")
	}
}

func TestDeleteSolicitacaoNotFound(t *testing.T) {
	store := &stubTicketStore{deleteErr: solicitacao.ErrNotFound}
	_, router := newTicketHandler(store)

	req := httptest.NewRequest(http.MethodDelete, "/solicitacoes/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, esperado 404", rec.Code)
	}
	if code := decodeError(t, rec); code != "NOT_FOUND" {
		t.Fatalf("code = %q, esperado NOT_FOUND", code)
	}
}

func TestResolverInvalidTransitionReturns409(t *testing.T) {
	store := &stubTicketStore{current: &solicitacao.Solicitacao{
		ID:     uuid.New(),
		Status: solicitacao.StatusAguardando,
	}}
	_, router := newTicketHandler(store)

	req := httptest.NewRequest(http.MethodPost, "/solicitacoes/"+store.current.ID.String()+"/resolver", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, esperado 409", rec.Code)
	}
	if code := decodeError(t, rec); code != "CONFLICT" {
		t.Fatalf("code = %q", code)
	}
}

func TestGetSolicitacaoSuccessEnvelope(t *testing.T) {
	store := &stubTicketStore{current: &solicitacao.Solicitacao{
		ID:        uuid.New(),
		Protocolo: "OS-2026-0042",
		Status:    solicitacao.StatusAguardando,
	}}
	_, router := newTicketHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/solicitacoes/"+store.current.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}

	var envelope struct {
		Data struct {
			Protocolo string `json:"protocolo"`
		} `json:"data"`
		Error any `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Protocolo != "OS-2026-0042" {
		t.Fatalf("protocolo = %q", envelope.Data.Protocolo)
	}
	if envelope.Error != nil {
		t.Fatalf("error = %v, esperado null", envelope.Error)
	}
}
