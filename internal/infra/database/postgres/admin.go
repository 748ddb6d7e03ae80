package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

// Белый список таблиц для массовых админских операций: имя таблицы
// приходит из кода сервиса, но не даём ему стать произвольным.
var adminTables = map[string]bool{
	"blogs":      true,
	"categories": true,
	"tags":       true,
	"topics":     true,
}

func (r *Admin) BlogPage(ctx context.Context, f domain.AdminBlogFilter, deleted bool, uid domain.UserID) (domain.PageInfo[domain.AdminBlog], error) {
	page := f.Page
	if page < 1 {
		page = 1
	}

	where := sq.And{deletedExpr("b.", deleted)}
	if uid >= 0 {
		where = append(where, sq.Eq{"b.user_id": uid})
	}
	if f.Keyword != "" {
		where = append(where, sq.ILike{"b.title": "%" + f.Keyword + "%"})
	}
	if f.CategoryID > 0 {
		where = append(where, sq.Eq{"b.category_id": f.CategoryID})
	}
	if f.TopicID > 0 {
		where = append(where, sq.Eq{"b.topic_id": f.TopicID})
	}

	countQ := r.qb().Select("COUNT(*)").From(r.tbl("blogs") + " b").Where(where)
	sqlStr, args, _ := countQ.ToSql()
	r.logSQL("Admin.BlogPage.count", sqlStr, args)

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		r.logger.Printf("Admin.BlogPage count error: %v", err)
		return domain.EmptyPage[domain.AdminBlog](), err
	}

	q := r.qb().Select(
		"b.id", "b.title", "b.description", "b.cover_image", "b.eye_count", "b.like_count",
		"b.source_url", "b.create_at", "c.id", "c.name", "t.id", "t.name", "u.id", "u.nick_name",
	).
		From(r.tbl("blogs") + " b").
		LeftJoin(r.tbl("categories") + " c ON c.id = b.category_id").
		LeftJoin(r.tbl("topics") + " t ON t.id = b.topic_id").
		Join(r.tbl("users") + " u ON u.id = b.user_id").
		Where(where).
		OrderBy(f.Sort.Valid().OrderBy("b.")).
		Limit(uint64(domain.AdminBlogPageSize)).
		Offset(uint64((page - 1) * domain.AdminBlogPageSize))

	sqlStr, args, _ = q.ToSql()
	r.logSQL("Admin.BlogPage", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Admin.BlogPage query error after %s: %v", time.Since(start), err)
		return domain.EmptyPage[domain.AdminBlog](), err
	}
	defer rows.Close()

	blogs := make([]domain.AdminBlog, 0, domain.AdminBlogPageSize)
	for rows.Next() {
		var (
			b         domain.AdminBlog
			sourceURL *string
			catID     *int64
			catName   *string
			topID     *int64
			topName   *string
		)
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Description, &b.CoverImage, &b.EyeCount, &b.LikeCount,
			&sourceURL, &b.CreateAt, &catID, &catName, &topID, &topName, &b.User.ID, &b.User.NickName,
		); err != nil {
			r.logger.Printf("Admin.BlogPage scan error: %v", err)
			return domain.EmptyPage[domain.AdminBlog](), err
		}
		b.Original = sourceURL == nil || *sourceURL == ""
		if catID != nil {
			b.Category = &domain.Category{ID: *catID, Name: *catName}
		}
		if topID != nil {
			b.Topic = &domain.SimpleTopic{ID: *topID, Name: *topName}
		}
		blogs = append(blogs, b)
	}
	if err := rows.Err(); err != nil {
		return domain.EmptyPage[domain.AdminBlog](), err
	}
	r.logger.Printf("Admin.BlogPage ok in %s count=%d", time.Since(start), len(blogs))
	return domain.PageInfo[domain.AdminBlog]{Page: page, Size: domain.AdminBlogPageSize, Total: total, Data: blogs}, nil
}

// SoftDelete проставляет либо снимает deleted_at. uid < 0 — супер-админ,
// без проверки владельца.
func (r *Admin) SoftDelete(ctx context.Context, table string, ids []int64, uid domain.UserID, deleted bool) (int64, error) {
	if !adminTables[table] {
		return 0, fmt.Errorf("soft delete: table %q not allowed", table)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	q := r.qb().Update(r.tbl(table)).
		Set("deleted_at", deletedValue(deleted)).
		Where(sq.Eq{"id": ids})
	if uid >= 0 {
		q = q.Where(sq.Eq{"user_id": uid})
	}

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Admin.SoftDelete", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Admin.SoftDelete exec error after %s: %v", time.Since(start), err)
		return 0, err
	}
	r.logger.Printf("Admin.SoftDelete ok in %s table=%s rows=%d", time.Since(start), table, tag.RowsAffected())
	return tag.RowsAffected(), nil
}

// DeleteBlogsByCategories каскадно прячет посты удаляемых категорий.
func (r *Admin) DeleteBlogsByCategories(ctx context.Context, ids []int64, deleted bool) error {
	if len(ids) == 0 {
		return nil
	}
	q := r.qb().Update(r.tbl("blogs")).
		Set("deleted_at", deletedValue(deleted)).
		Where(sq.Eq{"category_id": ids})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Admin.DeleteBlogsByCategories", sqlStr, args)

	if _, err := r.pool.Exec(ctx, sqlStr, args...); err != nil {
		r.logger.Printf("Admin.DeleteBlogsByCategories exec error: %v", err)
		return err
	}
	return nil
}

func (r *Admin) DeleteBlogsByTopics(ctx context.Context, ids []int64, deleted bool, uid domain.UserID) error {
	if len(ids) == 0 {
		return nil
	}
	q := r.qb().Update(r.tbl("blogs")).
		Set("deleted_at", deletedValue(deleted)).
		Where(sq.Eq{"topic_id": ids})
	if uid >= 0 {
		q = q.Where(sq.Eq{"user_id": uid})
	}

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Admin.DeleteBlogsByTopics", sqlStr, args)

	if _, err := r.pool.Exec(ctx, sqlStr, args...); err != nil {
		r.logger.Printf("Admin.DeleteBlogsByTopics exec error: %v", err)
		return err
	}
	return nil
}

// TaxonomyPage — админский листинг категорий либо тегов (структура у них одна).
func (r *Admin) TaxonomyPage(ctx context.Context, table string, f domain.AdminFilter) (domain.PageInfo[domain.AdminTaxonomy], error) {
	if !adminTables[table] {
		return domain.EmptyPage[domain.AdminTaxonomy](), fmt.Errorf("taxonomy page: table %q not allowed", table)
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	where := sq.And{deletedExpr("", f.Deleted)}
	if f.Keyword != "" {
		where = append(where, sq.ILike{"name": "%" + f.Keyword + "%"})
	}

	countQ := r.qb().Select("COUNT(*)").From(r.tbl(table)).Where(where)
	sqlStr, args, _ := countQ.ToSql()
	r.logSQL("Admin.TaxonomyPage.count", sqlStr, args)

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		r.logger.Printf("Admin.TaxonomyPage count error: %v", err)
		return domain.EmptyPage[domain.AdminTaxonomy](), err
	}

	q := r.qb().Select("id", "name", "create_at", "update_at").
		From(r.tbl(table)).
		Where(where).
		OrderBy("create_at DESC").
		Limit(uint64(domain.AdminTaxonomyPageSize)).
		Offset(uint64((page - 1) * domain.AdminTaxonomyPageSize))

	sqlStr, args, _ = q.ToSql()
	r.logSQL("Admin.TaxonomyPage", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Admin.TaxonomyPage query error: %v", err)
		return domain.EmptyPage[domain.AdminTaxonomy](), err
	}
	defer rows.Close()

	list := make([]domain.AdminTaxonomy, 0, domain.AdminTaxonomyPageSize)
	for rows.Next() {
		var t domain.AdminTaxonomy
		if err := rows.Scan(&t.ID, &t.Name, &t.CreateAt, &t.UpdateAt); err != nil {
			r.logger.Printf("Admin.TaxonomyPage scan error: %v", err)
			return domain.EmptyPage[domain.AdminTaxonomy](), err
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return domain.EmptyPage[domain.AdminTaxonomy](), err
	}
	return domain.PageInfo[domain.AdminTaxonomy]{Page: page, Size: domain.AdminTaxonomyPageSize, Total: total, Data: list}, nil
}

func (r *Admin) TopicPage(ctx context.Context, f domain.AdminFilter, uid domain.UserID) (domain.PageInfo[domain.AdminTopic], error) {
	page := f.Page
	if page < 1 {
		page = 1
	}

	where := sq.And{deletedExpr("t.", f.Deleted)}
	if uid >= 0 {
		where = append(where, sq.Eq{"t.user_id": uid})
	}
	if f.Keyword != "" {
		where = append(where, sq.ILike{"t.name": "%" + f.Keyword + "%"})
	}

	countQ := r.qb().Select("COUNT(*)").From(r.tbl("topics") + " t").Where(where)
	sqlStr, args, _ := countQ.ToSql()
	r.logSQL("Admin.TopicPage.count", sqlStr, args)

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		r.logger.Printf("Admin.TopicPage count error: %v", err)
		return domain.EmptyPage[domain.AdminTopic](), err
	}

	q := r.qb().Select("t.id", "t.name", "t.description", "t.cover_image", "t.create_at", "t.update_at", "u.id", "u.nick_name").
		From(r.tbl("topics") + " t").
		Join(r.tbl("users") + " u ON u.id = t.user_id").
		Where(where).
		OrderBy("t.create_at DESC").
		Limit(uint64(domain.AdminTopicPageSize)).
		Offset(uint64((page - 1) * domain.AdminTopicPageSize))

	sqlStr, args, _ = q.ToSql()
	r.logSQL("Admin.TopicPage", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Admin.TopicPage query error: %v", err)
		return domain.EmptyPage[domain.AdminTopic](), err
	}
	defer rows.Close()

	list := make([]domain.AdminTopic, 0, domain.AdminTopicPageSize)
	for rows.Next() {
		var t domain.AdminTopic
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CoverImage, &t.CreateAt, &t.UpdateAt, &t.User.ID, &t.User.NickName); err != nil {
			r.logger.Printf("Admin.TopicPage scan error: %v", err)
			return domain.EmptyPage[domain.AdminTopic](), err
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return domain.EmptyPage[domain.AdminTopic](), err
	}
	return domain.PageInfo[domain.AdminTopic]{Page: page, Size: domain.AdminTopicPageSize, Total: total, Data: list}, nil
}

func (r *Admin) FilePage(ctx context.Context, f domain.AdminFilter) (domain.PageInfo[domain.StoredFile], error) {
	page := f.Page
	if page < 1 {
		page = 1
	}

	where := sq.And{}
	if f.Keyword != "" {
		where = append(where, sq.ILike{"old_name": "%" + f.Keyword + "%"})
	}

	countQ := r.qb().Select("COUNT(*)").From(r.tbl("files"))
	if len(where) > 0 {
		countQ = countQ.Where(where)
	}
	sqlStr, args, _ := countQ.ToSql()
	r.logSQL("Admin.FilePage.count", sqlStr, args)

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		r.logger.Printf("Admin.FilePage count error: %v", err)
		return domain.EmptyPage[domain.StoredFile](), err
	}

	q := r.qb().Select("id", "user_id", "old_name", "new_name", "suffix", "size", "md5", "url", "is_public", "create_at").
		From(r.tbl("files")).
		OrderBy("create_at DESC").
		Limit(uint64(domain.AdminFilePageSize)).
		Offset(uint64((page - 1) * domain.AdminFilePageSize))
	if len(where) > 0 {
		q = q.Where(where)
	}

	sqlStr, args, _ = q.ToSql()
	r.logSQL("Admin.FilePage", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Admin.FilePage query error: %v", err)
		return domain.EmptyPage[domain.StoredFile](), err
	}
	defer rows.Close()

	files := make([]domain.StoredFile, 0, domain.AdminFilePageSize)
	for rows.Next() {
		var sf domain.StoredFile
		if err := rows.Scan(
			&sf.ID, &sf.UserID, &sf.OldName, &sf.NewName, &sf.Suffix, &sf.Size, &sf.MD5, &sf.URL, &sf.Public, &sf.CreateAt,
		); err != nil {
			r.logger.Printf("Admin.FilePage scan error: %v", err)
			return domain.EmptyPage[domain.StoredFile](), err
		}
		files = append(files, sf)
	}
	if err := rows.Err(); err != nil {
		return domain.EmptyPage[domain.StoredFile](), err
	}
	return domain.PageInfo[domain.StoredFile]{Page: page, Size: domain.AdminFilePageSize, Total: total, Data: files}, nil
}

func (r *Admin) UpdateName(ctx context.Context, table string, id int64, name string) (int64, error) {
	if !adminTables[table] {
		return 0, fmt.Errorf("update name: table %q not allowed", table)
	}
	q := r.qb().Update(r.tbl(table)).
		SetMap(map[string]any{
			"name":      name,
			"update_at": sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Admin.UpdateName", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Admin.UpdateName exec error: %v", err)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Admin) UpdateTopic(ctx context.Context, in domain.TopicInput, uid domain.UserID) (int64, error) {
	q := r.qb().Update(r.tbl("topics")).
		SetMap(map[string]any{
			"name":        in.Name,
			"description": in.Description,
			"cover_image": in.CoverImage,
			"update_at":   sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": in.ID})
	if uid >= 0 {
		q = q.Where(sq.Eq{"user_id": uid})
	}

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Admin.UpdateTopic", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Admin.UpdateTopic exec error: %v", err)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteFiles удаляет записи о файлах навсегда; сам контент чистит сервис.
func (r *Admin) DeleteFiles(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := r.qb().Delete(r.tbl("files")).Where(sq.Eq{"id": ids})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Admin.DeleteFiles", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Admin.DeleteFiles exec error: %v", err)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func deletedExpr(prefix string, deleted bool) sq.Sqlizer {
	if deleted {
		return sq.Expr(prefix + "deleted_at IS NOT NULL")
	}
	return sq.Expr(prefix + "deleted_at IS NULL")
}

func deletedValue(deleted bool) any {
	if deleted {
		return sq.Expr("now()")
	}
	return nil
}
