package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prefeiturafeijo/servicedesk/internal/storage"
)

func TestWizardAttachWithoutStorageReturns503(t *testing.T) {
	h := &Handler{storage: storage.NoopStore{}}

	r := chi.NewRouter()
	r.Post("/chat/sessoes/{id}/anexo", h.WizardAttach)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("arquivo", "foto.jpg")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if _, err := part.Write([]byte("conteudo")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := form.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/chat/sessoes/"+uuid.NewString()+"/anexo", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, esperado 503", rec.Code)
	}
	if code := decodeError(t, rec); code != "UNAVAILABLE" {
		t.Fatalf("code = %q, esperado UNAVAILABLE", code)
	}
}
