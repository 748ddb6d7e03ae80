package domain

import (
	"context"
	"io"
)

// Внешние соисполнители. Ядро не отвечает за их консистентность:
// поиск — best-effort, почта — fire-and-forget c логом.

// SearchIndex — клиент полнотекстового индекса.
type SearchIndex interface {
	SaveDocuments(ctx context.Context, docs []SearchBlog) error
	// Rebuild пересоздаёт индекс целиком.
	Rebuild(ctx context.Context, docs []SearchBlog) error
	Search(ctx context.Context, keyword string, page int64) (PageInfo[SearchBlog], error)
}

// Mailer — отправка писем (коды подтверждения, обратная связь).
type Mailer interface {
	SendCode(ctx context.Context, to, code string) error
	SendContact(ctx context.Context, subject, name, replyTo, content string) error
}

// PutResult — итог загрузки файла в объектное хранилище.
type PutResult struct {
	StorageKey string
	Size       int64
	MD5        string
	URL        string
}

// FileStorage — объектное хранилище файлов.
type FileStorage interface {
	Put(ctx context.Context, r io.Reader, hintName, mime string) (PutResult, error)
	Delete(ctx context.Context, storageKey string) error
}
