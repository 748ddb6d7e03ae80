package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

// Карточки листинга: только посты с категорией (посты тем живут в своих
// подборках) и без пометки удаления.
func (r *Blogs) PageByCategory(ctx context.Context, f domain.BlogFilter) (domain.PageInfo[domain.BlogCard], error) {
	page := f.Page
	if page < 1 {
		page = 1
	}

	where := sq.And{
		sq.Expr("b.deleted_at IS NULL"),
		sq.Expr("b.category_id IS NOT NULL"),
	}
	if f.CategoryID > 0 {
		where = append(where, sq.Eq{"b.category_id": f.CategoryID})
	}

	total, err := r.countBlogs(ctx, "PageByCategory.count", where)
	if err != nil {
		return domain.EmptyPage[domain.BlogCard](), err
	}

	q := r.qb().Select(
		"b.id", "b.title", "b.description", "b.cover_image", "b.create_at",
		"c.id", "c.name", "u.id", "u.nick_name",
	).
		From(r.tbl("blogs") + " b").
		Join(r.tbl("categories") + " c ON c.id = b.category_id").
		Join(r.tbl("users") + " u ON u.id = b.user_id").
		Where(where).
		OrderBy(f.Sort.Valid().OrderBy("b.")).
		Limit(uint64(domain.BlogPageSize)).
		Offset(uint64((page - 1) * domain.BlogPageSize))

	sqlStr, args, _ := q.ToSql()
	r.logSQL("PageByCategory", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("PageByCategory query error after %s: %v", time.Since(start), err)
		return domain.EmptyPage[domain.BlogCard](), err
	}
	defer rows.Close()

	cards := make([]domain.BlogCard, 0, domain.BlogPageSize)
	for rows.Next() {
		var (
			card     domain.BlogCard
			createAt time.Time
		)
		if err := rows.Scan(
			&card.ID, &card.Title, &card.Desc, &card.CoverImage, &createAt,
			&card.Category.ID, &card.Category.Name, &card.User.ID, &card.User.NickName,
		); err != nil {
			r.logger.Printf("PageByCategory scan error: %v", err)
			return domain.EmptyPage[domain.BlogCard](), err
		}
		card.Timestamp = createAt.UnixMilli()
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("PageByCategory rows error: %v", err)
		return domain.EmptyPage[domain.BlogCard](), err
	}
	r.logger.Printf("PageByCategory ok in %s count=%d", time.Since(start), len(cards))

	return domain.PageInfo[domain.BlogCard]{Page: page, Size: domain.BlogPageSize, Total: total, Data: cards}, nil
}

func (r *Blogs) HotBlogs(ctx context.Context) ([]domain.SimpleBlog, error) {
	return r.simpleBlogs(ctx, "HotBlogs", "eye_count DESC", domain.HotBlogPageSize)
}

func (r *Blogs) LatestBlogs(ctx context.Context) ([]domain.SimpleBlog, error) {
	return r.simpleBlogs(ctx, "LatestBlogs", "create_at DESC", domain.LatestBlogPageSize)
}

func (r *Blogs) simpleBlogs(ctx context.Context, op, order string, limit int64) ([]domain.SimpleBlog, error) {
	q := r.qb().Select("id", "title").
		From(r.tbl("blogs")).
		Where(sq.Expr("deleted_at IS NULL")).
		OrderBy(order).
		Limit(uint64(limit))

	sqlStr, args, _ := q.ToSql()
	r.logSQL(op, sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("%s query error after %s: %v", op, time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	blogs := make([]domain.SimpleBlog, 0, limit)
	for rows.Next() {
		var b domain.SimpleBlog
		if err := rows.Scan(&b.ID, &b.Title); err != nil {
			r.logger.Printf("%s scan error: %v", op, err)
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

func (r *Blogs) ArchiveByRange(ctx context.Context, ar domain.ArchiveRange) (domain.PageInfo[domain.ArchiveBlog], error) {
	page := ar.Page
	if page < 1 {
		page = 1
	}

	where := sq.And{
		sq.Expr("b.deleted_at IS NULL"),
		sq.GtOrEq{"b.create_at": ar.Start},
		sq.LtOrEq{"b.create_at": ar.End},
	}
	total, err := r.countBlogs(ctx, "ArchiveByRange.count", where)
	if err != nil {
		return domain.EmptyPage[domain.ArchiveBlog](), err
	}

	q := r.qb().Select("b.id", "b.title", "b.description", "b.create_at").
		From(r.tbl("blogs") + " b").
		Where(where).
		OrderBy("b.create_at DESC").
		Limit(uint64(domain.ArchiveBlogSize)).
		Offset(uint64((page - 1) * domain.ArchiveBlogSize))

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ArchiveByRange", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("ArchiveByRange query error: %v", err)
		return domain.EmptyPage[domain.ArchiveBlog](), err
	}
	defer rows.Close()

	blogs := make([]domain.ArchiveBlog, 0, domain.ArchiveBlogSize)
	for rows.Next() {
		var b domain.ArchiveBlog
		if err := rows.Scan(&b.ID, &b.Title, &b.Desc, &b.CreateAt); err != nil {
			r.logger.Printf("ArchiveByRange scan error: %v", err)
			return domain.EmptyPage[domain.ArchiveBlog](), err
		}
		blogs = append(blogs, b)
	}
	if err := rows.Err(); err != nil {
		return domain.EmptyPage[domain.ArchiveBlog](), err
	}

	return domain.PageInfo[domain.ArchiveBlog]{Page: page, Size: domain.ArchiveBlogSize, Total: total, Data: blogs}, nil
}

// ByID возвращает (nil, nil) если поста нет или он удалён.
func (r *Blogs) ByID(ctx context.Context, id domain.BlogID) (*domain.BlogContent, error) {
	q := r.qb().Select(
		"b.id", "b.title", "b.description", "b.cover_image", "b.source_url", "b.content",
		"b.eye_count", "b.like_count", "b.create_at", "b.update_at",
		"c.id", "c.name", "t.id", "t.name", "u.id", "u.nick_name",
	).
		From(r.tbl("blogs") + " b").
		LeftJoin(r.tbl("categories") + " c ON c.id = b.category_id").
		LeftJoin(r.tbl("topics") + " t ON t.id = b.topic_id").
		Join(r.tbl("users") + " u ON u.id = b.user_id").
		Where(sq.And{sq.Eq{"b.id": id}, sq.Expr("b.deleted_at IS NULL")})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ByID", sqlStr, args)

	start := time.Now()
	var (
		b         domain.BlogContent
		sourceURL *string
		catID     *int64
		catName   *string
		topID     *int64
		topName   *string
	)
	err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&b.ID, &b.Title, &b.Description, &b.CoverImage, &sourceURL, &b.Content,
		&b.EyeCount, &b.LikeCount, &b.CreateAt, &b.UpdateAt,
		&catID, &catName, &topID, &topName, &b.User.ID, &b.User.NickName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Printf("ByID scan error after %s: %v", time.Since(start), err)
		return nil, err
	}
	if sourceURL != nil {
		b.SourceURL = *sourceURL
	}
	if catID != nil {
		b.Category = &domain.Category{ID: *catID, Name: *catName}
	}
	if topID != nil {
		b.Topic = &domain.SimpleTopic{ID: *topID, Name: *topName}
	}

	tags, err := r.blogTags(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Tags = tags
	r.logger.Printf("ByID ok in %s id=%d", time.Since(start), b.ID)
	return &b, nil
}

func (r *Blogs) blogTags(ctx context.Context, id domain.BlogID) ([]domain.Tag, error) {
	q := r.qb().Select("t.id", "t.name").
		From(r.tbl("blogs_tags") + " bt").
		Join(r.tbl("tags") + " t ON t.id = bt.tag_id").
		Where(sq.Eq{"bt.blog_id": id}).
		OrderBy("t.id ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("blogTags", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("blogTags query error: %v", err)
		return nil, err
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ByIDs — карточки кураторской подборки; порядок входных id сохраняется.
func (r *Blogs) ByIDs(ctx context.Context, ids []domain.BlogID) ([]domain.RecommendBlog, error) {
	if len(ids) == 0 {
		return []domain.RecommendBlog{}, nil
	}
	q := r.qb().Select("id", "title", "cover_image").
		From(r.tbl("blogs")).
		Where(sq.And{sq.Eq{"id": ids}, sq.Expr("deleted_at IS NULL")})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ByIDs", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("ByIDs query error: %v", err)
		return nil, err
	}
	defer rows.Close()

	byID := make(map[domain.BlogID]domain.RecommendBlog, len(ids))
	for rows.Next() {
		var b domain.RecommendBlog
		if err := rows.Scan(&b.ID, &b.Title, &b.CoverImage); err != nil {
			return nil, err
		}
		byID[b.ID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.RecommendBlog, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *Blogs) UserBlogs(ctx context.Context, uid domain.UserID, f domain.UserBlogFilter) (domain.PageInfo[domain.BlogCard], error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	where := sq.And{
		sq.Expr("b.deleted_at IS NULL"),
		sq.Expr("b.category_id IS NOT NULL"),
		sq.Eq{"b.user_id": uid},
	}
	total, err := r.countBlogs(ctx, "UserBlogs.count", where)
	if err != nil {
		return domain.EmptyPage[domain.BlogCard](), err
	}

	q := r.qb().Select(
		"b.id", "b.title", "b.description", "b.cover_image", "b.create_at",
		"c.id", "c.name", "u.id", "u.nick_name",
	).
		From(r.tbl("blogs") + " b").
		Join(r.tbl("categories") + " c ON c.id = b.category_id").
		Join(r.tbl("users") + " u ON u.id = b.user_id").
		Where(where).
		OrderBy(f.Sort.Valid().OrderBy("b.")).
		Limit(uint64(domain.BlogPageSize)).
		Offset(uint64((page - 1) * domain.BlogPageSize))

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UserBlogs", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("UserBlogs query error: %v", err)
		return domain.EmptyPage[domain.BlogCard](), err
	}
	defer rows.Close()

	cards := make([]domain.BlogCard, 0, domain.BlogPageSize)
	for rows.Next() {
		var (
			card     domain.BlogCard
			createAt time.Time
		)
		if err := rows.Scan(
			&card.ID, &card.Title, &card.Desc, &card.CoverImage, &createAt,
			&card.Category.ID, &card.Category.Name, &card.User.ID, &card.User.NickName,
		); err != nil {
			r.logger.Printf("UserBlogs scan error: %v", err)
			return domain.EmptyPage[domain.BlogCard](), err
		}
		card.Timestamp = createAt.UnixMilli()
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return domain.EmptyPage[domain.BlogCard](), err
	}
	return domain.PageInfo[domain.BlogCard]{Page: page, Size: domain.BlogPageSize, Total: total, Data: cards}, nil
}

func (r *Blogs) UserTopBlogs(ctx context.Context, uid domain.UserID) ([]domain.SimpleBlog, error) {
	q := r.qb().Select("id", "title").
		From(r.tbl("blogs")).
		Where(sq.And{sq.Expr("deleted_at IS NULL"), sq.Eq{"user_id": uid}}).
		OrderBy("eye_count DESC").
		Limit(uint64(domain.UserTopBlogSize))

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UserTopBlogs", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("UserTopBlogs query error: %v", err)
		return nil, err
	}
	defer rows.Close()

	blogs := make([]domain.SimpleBlog, 0, domain.UserTopBlogSize)
	for rows.Next() {
		var b domain.SimpleBlog
		if err := rows.Scan(&b.ID, &b.Title); err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

func (r *Blogs) Insert(ctx context.Context, in domain.BlogInput, uid domain.UserID) (domain.BlogID, error) {
	q := r.qb().Insert(r.tbl("blogs")).
		Columns("title", "description", "cover_image", "source_url", "content", "category_id", "topic_id", "user_id").
		Values(in.Title, in.Description, in.CoverImage, nilIfEmpty(in.SourceURL), in.Content,
			nilIfZero(in.CategoryID), nilIfZero(in.TopicID), uid).
		Suffix("RETURNING id")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Insert", sqlStr, args)

	start := time.Now()
	var id domain.BlogID
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		r.logger.Printf("Insert scan error after %s: %v", time.Since(start), err)
		return 0, err
	}
	if err := r.replaceTags(ctx, id, in.TagIDs); err != nil {
		return 0, err
	}
	r.logger.Printf("Insert ok in %s id=%d title=%q", time.Since(start), id, in.Title)
	return id, nil
}

// Update — только свой пост; админская правка чужих идёт через uid владельца.
func (r *Blogs) Update(ctx context.Context, in domain.BlogInput, uid domain.UserID) error {
	q := r.qb().Update(r.tbl("blogs")).
		SetMap(map[string]any{
			"title":       in.Title,
			"description": in.Description,
			"cover_image": in.CoverImage,
			"source_url":  nilIfEmpty(in.SourceURL),
			"content":     in.Content,
			"category_id": nilIfZero(in.CategoryID),
			"topic_id":    nilIfZero(in.TopicID),
			"update_at":   sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": in.ID})
	// uid < 0 — супер-админ, без проверки владельца
	if uid >= 0 {
		q = q.Where(sq.Eq{"user_id": uid})
	}

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Update", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Update exec error after %s: %v", time.Since(start), err)
		return err
	}
	if tag.RowsAffected() == 0 {
		r.logger.Printf("Update no rows affected in %s (blog not found or not owner)", time.Since(start))
		return domain.ErrNotFound
	}
	if err := r.replaceTags(ctx, in.ID, in.TagIDs); err != nil {
		return err
	}
	r.logger.Printf("Update ok in %s id=%d", time.Since(start), in.ID)
	return nil
}

func (r *Blogs) replaceTags(ctx context.Context, id domain.BlogID, tagIDs []domain.TagID) error {
	del := r.qb().Delete(r.tbl("blogs_tags")).Where(sq.Eq{"blog_id": id})
	sqlStr, args, _ := del.ToSql()
	if _, err := r.pool.Exec(ctx, sqlStr, args...); err != nil {
		r.logger.Printf("replaceTags delete error: %v", err)
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	ins := r.qb().Insert(r.tbl("blogs_tags")).Columns("blog_id", "tag_id")
	for _, tid := range tagIDs {
		ins = ins.Values(id, tid)
	}
	sqlStr, args, _ = ins.ToSql()
	r.logSQL("replaceTags", sqlStr, args)
	if _, err := r.pool.Exec(ctx, sqlStr, args...); err != nil {
		r.logger.Printf("replaceTags insert error: %v", err)
		return err
	}
	return nil
}

// EditInfo — пост в форме редактирования, вместе со списком id тегов.
func (r *Blogs) EditInfo(ctx context.Context, id domain.BlogID) (*domain.BlogInput, error) {
	q := r.qb().Select("id", "title", "description", "cover_image", "source_url", "content", "category_id", "topic_id").
		From(r.tbl("blogs")).
		Where(sq.And{sq.Eq{"id": id}, sq.Expr("deleted_at IS NULL")})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("EditInfo", sqlStr, args)

	var (
		in        domain.BlogInput
		sourceURL *string
		catID     *int64
		topID     *int64
	)
	err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&in.ID, &in.Title, &in.Description, &in.CoverImage, &sourceURL, &in.Content, &catID, &topID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Printf("EditInfo scan error: %v", err)
		return nil, err
	}
	if sourceURL != nil {
		in.SourceURL = *sourceURL
	}
	if catID != nil {
		in.CategoryID = *catID
	}
	if topID != nil {
		in.TopicID = *topID
	}

	tags, err := r.blogTags(ctx, id)
	if err != nil {
		return nil, err
	}
	in.TagIDs = make([]domain.TagID, 0, len(tags))
	for _, t := range tags {
		in.TagIDs = append(in.TagIDs, t.ID)
	}
	return &in, nil
}

// AllSimple — все живые посты для перестройки поискового индекса.
func (r *Blogs) AllSimple(ctx context.Context) ([]domain.SearchBlog, error) {
	q := r.qb().Select("id", "title", "description").
		From(r.tbl("blogs")).
		Where(sq.Expr("deleted_at IS NULL")).
		OrderBy("id ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("AllSimple", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("AllSimple query error: %v", err)
		return nil, err
	}
	defer rows.Close()

	var docs []domain.SearchBlog
	for rows.Next() {
		var d domain.SearchBlog
		if err := rows.Scan(&d.ID, &d.Title, &d.Description); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// UpdateEyeCount пишет абсолютное значение счётчика из кеша.
func (r *Blogs) UpdateEyeCount(ctx context.Context, id domain.BlogID, count int64) error {
	q := r.qb().Update(r.tbl("blogs")).
		Set("eye_count", count).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateEyeCount", sqlStr, args)

	start := time.Now()
	if _, err := r.pool.Exec(ctx, sqlStr, args...); err != nil {
		r.logger.Printf("UpdateEyeCount exec error after %s: %v", time.Since(start), err)
		return err
	}
	return nil
}

func (r *Blogs) countBlogs(ctx context.Context, op string, where sq.And) (int64, error) {
	q := r.qb().Select("COUNT(*)").From(r.tbl("blogs") + " b").Where(where)
	sqlStr, args, _ := q.ToSql()
	r.logSQL(op, sqlStr, args)

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		r.logger.Printf("%s scan error: %v", op, err)
		return 0, err
	}
	return total, nil
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nilIfZero(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
