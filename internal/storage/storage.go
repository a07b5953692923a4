package storage

import "context"

// SaveInput representa um anexo a persistir.
type SaveInput struct {
	Key         string
	Body        []byte
	ContentType string
}

// Object descreve o anexo persistido.
type Object struct {
	URL string
}

// FileStore define o comportamento mínimo para guardar anexos do wizard.
type FileStore interface {
	Save(ctx context.Context, input SaveInput) (*Object, error)
}
