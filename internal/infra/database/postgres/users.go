package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

func (r *Users) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	q := r.qb().Select("id", "username", "password", "nick_name", "role", "icon").
		From(r.tbl("users")).
		Where(sq.Eq{"username": username})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ByUsername", sqlStr, args)

	start := time.Now()
	var u domain.User
	err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&u.ID, &u.Username, &u.Password, &u.NickName, &u.Role, &u.Icon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Printf("ByUsername scan error after %s: %v", time.Since(start), err)
		return nil, err
	}
	r.logger.Printf("ByUsername ok in %s id=%d", time.Since(start), u.ID)
	return &u, nil
}

func (r *Users) Exists(ctx context.Context, username, email string) (bool, error) {
	q := r.qb().Select("COUNT(*)").
		From(r.tbl("users")).
		Where(sq.Or{sq.Eq{"username": username}, sq.Eq{"email": email}})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Exists", sqlStr, args)

	var n int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&n); err != nil {
		r.logger.Printf("Exists scan error: %v", err)
		return false, err
	}
	return n > 0, nil
}

func (r *Users) Insert(ctx context.Context, in domain.RegisterInput) (domain.UserID, error) {
	q := r.qb().Insert(r.tbl("users")).
		Columns("username", "nick_name", "password", "email", "icon", "role").
		Values(in.Username, in.NickName, in.Password, in.Email, in.Icon, domain.RoleUser).
		Suffix("RETURNING id")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("InsertUser", sqlStr, args)

	start := time.Now()
	var id domain.UserID
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		r.logger.Printf("InsertUser scan error after %s: %v", time.Since(start), err)
		return 0, err
	}
	r.logger.Printf("InsertUser ok in %s id=%d username=%s", time.Since(start), id, in.Username)
	return id, nil
}

// UpdateRole возвращает username — вызывающему нужно сбросить кеш профиля.
func (r *Users) UpdateRole(ctx context.Context, id domain.UserID, role string) (string, error) {
	q := r.qb().Update(r.tbl("users")).
		SetMap(map[string]any{
			"role":      role,
			"update_at": sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING username")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateRole", sqlStr, args)

	start := time.Now()
	var username string
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		r.logger.Printf("UpdateRole scan error after %s: %v", time.Since(start), err)
		return "", err
	}
	r.logger.Printf("UpdateRole ok in %s id=%d role=%s", time.Since(start), id, role)
	return username, nil
}
