package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

func (r *Files) Insert(ctx context.Context, f domain.StoredFile) (domain.FileID, error) {
	q := r.qb().Insert(r.tbl("files")).
		Columns("user_id", "old_name", "new_name", "suffix", "size", "md5", "url", "is_public").
		Values(f.UserID, f.OldName, f.NewName, f.Suffix, f.Size, f.MD5, f.URL, f.Public).
		Suffix("RETURNING id")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Files.Insert", sqlStr, args)

	start := time.Now()
	var id domain.FileID
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		r.logger.Printf("Files.Insert scan error after %s: %v", time.Since(start), err)
		return 0, err
	}
	r.logger.Printf("Files.Insert ok in %s id=%d name=%q", time.Since(start), id, f.OldName)
	return id, nil
}

// FirstByMD5 ищет уже загруженный контент — дедупликация по хэшу.
func (r *Files) FirstByMD5(ctx context.Context, md5 string) (*domain.StoredFile, error) {
	q := r.qb().Select("id", "user_id", "old_name", "new_name", "suffix", "size", "md5", "url", "is_public", "create_at").
		From(r.tbl("files")).
		Where(sq.Eq{"md5": md5}).
		OrderBy("id ASC").
		Limit(1)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Files.FirstByMD5", sqlStr, args)

	var f domain.StoredFile
	err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&f.ID, &f.UserID, &f.OldName, &f.NewName, &f.Suffix, &f.Size, &f.MD5, &f.URL, &f.Public, &f.CreateAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Printf("Files.FirstByMD5 scan error: %v", err)
		return nil, err
	}
	return &f, nil
}

func (r *Files) PagePublic(ctx context.Context, page int64, keyword string) (domain.PageInfo[domain.StoredFile], error) {
	where := sq.And{sq.Eq{"is_public": true}}
	if keyword != "" {
		where = append(where, sq.ILike{"old_name": "%" + keyword + "%"})
	}
	return r.page(ctx, "Files.PagePublic", page, where)
}

func (r *Files) PageByUser(ctx context.Context, uid domain.UserID, page int64, keyword string) (domain.PageInfo[domain.StoredFile], error) {
	where := sq.And{sq.Eq{"user_id": uid}}
	if keyword != "" {
		where = append(where, sq.ILike{"old_name": "%" + keyword + "%"})
	}
	return r.page(ctx, "Files.PageByUser", page, where)
}

func (r *Files) page(ctx context.Context, op string, page int64, where sq.And) (domain.PageInfo[domain.StoredFile], error) {
	if page < 1 {
		page = 1
	}

	countQ := r.qb().Select("COUNT(*)").From(r.tbl("files")).Where(where)
	sqlStr, args, _ := countQ.ToSql()
	r.logSQL(op+".count", sqlStr, args)

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		r.logger.Printf("%s count error: %v", op, err)
		return domain.EmptyPage[domain.StoredFile](), err
	}

	q := r.qb().Select("id", "user_id", "old_name", "new_name", "suffix", "size", "md5", "url", "is_public", "create_at").
		From(r.tbl("files")).
		Where(where).
		OrderBy("create_at DESC").
		Limit(uint64(domain.FilePageSize)).
		Offset(uint64((page - 1) * domain.FilePageSize))

	sqlStr, args, _ = q.ToSql()
	r.logSQL(op, sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("%s query error: %v", op, err)
		return domain.EmptyPage[domain.StoredFile](), err
	}
	defer rows.Close()

	files := make([]domain.StoredFile, 0, domain.FilePageSize)
	for rows.Next() {
		var f domain.StoredFile
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.OldName, &f.NewName, &f.Suffix, &f.Size, &f.MD5, &f.URL, &f.Public, &f.CreateAt,
		); err != nil {
			r.logger.Printf("%s scan error: %v", op, err)
			return domain.EmptyPage[domain.StoredFile](), err
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return domain.EmptyPage[domain.StoredFile](), err
	}
	return domain.PageInfo[domain.StoredFile]{Page: page, Size: domain.FilePageSize, Total: total, Data: files}, nil
}

func (r *Files) SetPublic(ctx context.Context, id domain.FileID, public bool) error {
	q := r.qb().Update(r.tbl("files")).
		Set("is_public", public).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Files.SetPublic", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Files.SetPublic exec error: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
