package s3

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string // база публичных ссылок на объекты
	UseSSL    bool
	PathStyle bool
}

type Storage struct {
	cl        *minio.Client
	bucket    string
	publicURL string
}

func New(ctx context.Context, cfg Config) (*Storage, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.PathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}
	cl, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, err
	}
	return &Storage{cl: cl, bucket: cfg.Bucket, publicURL: strings.TrimRight(cfg.PublicURL, "/")}, nil
}

var _ domain.FileStorage = (*Storage)(nil)

// Put загружает поток и возвращает итоговый ключ вида "md5/<hex>".
// Ключ детерминирован по контенту, поэтому повторная загрузка того же
// файла перезаписывает тот же объект — дедупликация бесплатно.
func (s *Storage) Put(ctx context.Context, r io.Reader, hintName, mime string) (domain.PutResult, error) {
	h := md5.New()
	pr, pw := io.Pipe()
	mw := io.MultiWriter(h, pw)

	// копируем в пайп и считаем md5 параллельно
	go func() {
		_, copyErr := io.Copy(mw, r)
		pw.CloseWithError(copyErr)
	}()

	tmpKey := "tmp/" + sanitize(hintName)
	info, err := s.cl.PutObject(ctx, s.bucket, tmpKey, pr, -1, minio.PutObjectOptions{
		ContentType: mime,
	})
	if err != nil {
		return domain.PutResult{}, err
	}

	sum := fmt.Sprintf("%x", h.Sum(nil))
	finalKey := "md5/" + sum
	src := minio.CopySrcOptions{Bucket: s.bucket, Object: tmpKey}
	dst := minio.CopyDestOptions{Bucket: s.bucket, Object: finalKey}
	if _, err := s.cl.CopyObject(ctx, dst, src); err != nil {
		_ = s.cl.RemoveObject(ctx, s.bucket, tmpKey, minio.RemoveObjectOptions{})
		return domain.PutResult{}, err
	}
	_ = s.cl.RemoveObject(ctx, s.bucket, tmpKey, minio.RemoveObjectOptions{})

	return domain.PutResult{
		StorageKey: finalKey,
		Size:       info.Size,
		MD5:        sum,
		URL:        s.publicURL + "/" + finalKey,
	}, nil
}

func (s *Storage) Delete(ctx context.Context, storageKey string) error {
	return s.cl.RemoveObject(ctx, s.bucket, storageKey, minio.RemoveObjectOptions{})
}

func sanitize(name string) string {
	u := url.PathEscape(name)
	return strings.ReplaceAll(u, "%2F", "_")
}
