package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prefeiturafeijo/servicedesk/internal/supportchat"
)

type stubSupportStore struct {
	chat         *supportchat.Chat
	messageSaved bool
}

func (s *stubSupportStore) Create(_ context.Context, input supportchat.OpenInput) (*supportchat.Chat, error) {
	return &supportchat.Chat{
		ID:        uuid.New(),
		SessionID: input.SessionID,
		CPF:       input.CPF,
		Name:      input.Name,
		Phone:     input.Phone,
		Status:    supportchat.StatusOpen,
	}, nil
}

func (s *stubSupportStore) Get(_ context.Context, _ uuid.UUID) (*supportchat.Chat, error) {
	if s.chat == nil {
		return nil, supportchat.ErrNotFound
	}
	return s.chat, nil
}

func (s *stubSupportStore) List(_ context.Context) ([]supportchat.Chat, error) {
	return nil, nil
}

func (s *stubSupportStore) Close(_ context.Context, _ uuid.UUID) (*supportchat.Chat, error) {
	out := *s.chat
	out.Status = supportchat.StatusClosed
	return &out, nil
}

func (s *stubSupportStore) CreateMessage(_ context.Context, chatID uuid.UUID, senderType, message string) (*supportchat.Message, error) {
	s.messageSaved = true
	return &supportchat.Message{
		ID:         uuid.New(),
		ChatID:     chatID,
		SenderType: senderType,
		Message:    message,
		Timestamp:  time.Now(),
	}, nil
}

func (s *stubSupportStore) ListMessages(_ context.Context, _ uuid.UUID) ([]supportchat.Message, error) {
	return nil, nil
}

func newSupportHandler(store *stubSupportStore) (*Handler, chi.Router) {
	h := &Handler{support: supportchat.NewService(store, nil)}

	r := chi.NewRouter()
	r.Post("/suporte/chats", h.OpenSupportChat)
	r.Post("/suporte/chats/{id}/mensagens", h.SendSupportMessage)
	return h, r
}

func TestSendSupportMessageEmptyReturns400(t *testing.T) {
	store := &stubSupportStore{chat: &supportchat.Chat{
		ID:     uuid.New(),
		Status: supportchat.StatusOpen,
	}}
	_, router := newSupportHandler(store)

	body := strings.NewReader(`{"mensagem":"   "}`)
	req := httptest.NewRequest(http.MethodPost, "/suporte/chats/"+store.chat.ID.String()+"/mensagens", body)
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

func TestSendSupportMessageClosedReturns409(t *testing.T) {
	store := &stubSupportStore{chat: &supportchat.Chat{
		ID:     uuid.New(),
		Status: supportchat.StatusClosed,
	}}
	_, router := newSupportHandler(store)

	body := strings.NewReader(`{"mensagem":"ainda preciso de ajuda"}`)
	req := httptest.NewRequest(http.MethodPost, "/suporte/chats/"+store.chat.ID.String()+"/mensagens", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, esperado 409", rec.Code)
	}
	if store.messageSaved {
		t.Fatal("chat encerrado não deveria receber mensagem")
	}
}

func TestOpenSupportChatInvalidCPFReturns400(t *testing.T) {
	_, router := newSupportHandler(&stubSupportStore{})

	body := strings.NewReader(`{"cpf":"11111111111","nome":"Maria","telefone":"68999990000"}`)
	req := httptest.NewRequest(http.MethodPost, "/suporte/chats", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", rec.Code)
	}
	if code := decodeError(t, rec); code != "VALIDATION" {
		t.Fatalf("code = %q, esperado VALIDATION", code)
	}
}
