package storage

import (
	"context"
	"errors"
)

// ErrUnavailable indica que nenhum backend de anexos foi configurado.
var ErrUnavailable = errors.New("storage de anexos não configurado")

// NoopStore é o backend padrão quando STORAGE_PROVIDER está vazio.
type NoopStore struct{}

// Save sempre devolve ErrUnavailable; o handler orienta o cidadão a
// concluir sem anexo.
func (NoopStore) Save(ctx context.Context, input SaveInput) (*Object, error) {
	return nil, ErrUnavailable
}
