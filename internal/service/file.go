package service

import (
	"context"
	"io"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

type FileService struct {
	repo    domain.FileRepo
	storage domain.FileStorage
	logger  *log.Logger
}

func NewFileService(repo domain.FileRepo, storage domain.FileStorage, logger *log.Logger) *FileService {
	return &FileService{repo: repo, storage: storage, logger: logger}
}

// Upload кладёт контент в объектное хранилище и мету в БД.
// Если контент с тем же md5 уже загружался, повторной записи в
// хранилище не происходит — переиспользуем существующий URL.
func (s *FileService) Upload(ctx context.Context, uid domain.UserID, name, mime string, r io.Reader, isPublic bool) (*domain.StoredFile, error) {
	if name == "" {
		return nil, domain.ErrBadParams
	}

	res, err := s.storage.Put(ctx, r, name, mime)
	if err != nil {
		return nil, err
	}

	url := res.URL
	if existing, err := s.repo.FirstByMD5(ctx, res.MD5); err == nil && existing != nil {
		url = existing.URL
	}

	suffix := strings.TrimPrefix(path.Ext(name), ".")
	f := domain.StoredFile{
		UserID:  uid,
		OldName: name,
		NewName: uuid.NewString() + "." + suffix,
		Suffix:  suffix,
		Size:    res.Size,
		MD5:     res.MD5,
		URL:     url,
		Public:  isPublic,
	}
	id, err := s.repo.Insert(ctx, f)
	if err != nil {
		return nil, err
	}
	f.ID = id
	s.logger.Printf("file uploaded id=%d name=%q size=%d", id, name, res.Size)
	return &f, nil
}

func (s *FileService) PagePublic(ctx context.Context, page int64, keyword string) (domain.PageInfo[domain.StoredFile], error) {
	return s.repo.PagePublic(ctx, page, keyword)
}

func (s *FileService) PageByUser(ctx context.Context, uid domain.UserID, page int64, keyword string) (domain.PageInfo[domain.StoredFile], error) {
	return s.repo.PageByUser(ctx, uid, page, keyword)
}

func (s *FileService) SetPublic(ctx context.Context, id domain.FileID, public bool) error {
	if id <= 0 {
		return domain.ErrBadParams
	}
	return s.repo.SetPublic(ctx, id, public)
}
