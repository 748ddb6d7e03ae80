package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

// ---- Категории ----

func (r *Categories) List(ctx context.Context) ([]domain.Category, error) {
	q := r.qb().Select("id", "name").
		From(r.tbl("categories")).
		Where(sq.Expr("deleted_at IS NULL")).
		OrderBy("id ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Categories.List", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Categories.List query error: %v", err)
		return nil, err
	}
	defer rows.Close()

	var list []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *Categories) Insert(ctx context.Context, name string) (*domain.Category, error) {
	q := r.qb().Insert(r.tbl("categories")).
		Columns("name").
		Values(name).
		Suffix("RETURNING id, name")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Categories.Insert", sqlStr, args)

	start := time.Now()
	var c domain.Category
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&c.ID, &c.Name); err != nil {
		r.logger.Printf("Categories.Insert scan error after %s: %v", time.Since(start), err)
		return nil, err
	}
	r.logger.Printf("Categories.Insert ok in %s id=%d name=%q", time.Since(start), c.ID, c.Name)
	return &c, nil
}

// ---- Теги ----

func (r *Tags) List(ctx context.Context) ([]domain.Tag, error) {
	q := r.qb().Select("id", "name").
		From(r.tbl("tags")).
		Where(sq.Expr("deleted_at IS NULL")).
		OrderBy("id ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Tags.List", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Tags.List query error: %v", err)
		return nil, err
	}
	defer rows.Close()

	var list []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *Tags) Insert(ctx context.Context, name string) (*domain.Tag, error) {
	q := r.qb().Insert(r.tbl("tags")).
		Columns("name").
		Values(name).
		Suffix("RETURNING id, name")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Tags.Insert", sqlStr, args)

	start := time.Now()
	var t domain.Tag
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&t.ID, &t.Name); err != nil {
		r.logger.Printf("Tags.Insert scan error after %s: %v", time.Since(start), err)
		return nil, err
	}
	r.logger.Printf("Tags.Insert ok in %s id=%d name=%q", time.Since(start), t.ID, t.Name)
	return &t, nil
}

func (r *Tags) ByID(ctx context.Context, id domain.TagID) (*domain.Tag, error) {
	q := r.qb().Select("id", "name").
		From(r.tbl("tags")).
		Where(sq.And{sq.Eq{"id": id}, sq.Expr("deleted_at IS NULL")})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Tags.ByID", sqlStr, args)

	var t domain.Tag
	err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Printf("Tags.ByID scan error: %v", err)
		return nil, err
	}
	return &t, nil
}

// Blogs — посты с данным тегом, обычная карточная страница.
func (r *Tags) Blogs(ctx context.Context, page int64, id domain.TagID) (domain.PageInfo[domain.BlogCard], error) {
	if page < 1 {
		page = 1
	}

	countQ := r.qb().Select("COUNT(*)").
		From(r.tbl("blogs_tags") + " bt").
		Join(r.tbl("blogs") + " b ON b.id = bt.blog_id").
		Where(sq.And{sq.Eq{"bt.tag_id": id}, sq.Expr("b.deleted_at IS NULL")})
	sqlStr, args, _ := countQ.ToSql()
	r.logSQL("Tags.Blogs.count", sqlStr, args)

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		r.logger.Printf("Tags.Blogs count error: %v", err)
		return domain.EmptyPage[domain.BlogCard](), err
	}

	q := r.qb().Select(
		"b.id", "b.title", "b.description", "b.cover_image", "b.create_at",
		"c.id", "c.name", "u.id", "u.nick_name",
	).
		From(r.tbl("blogs_tags") + " bt").
		Join(r.tbl("blogs") + " b ON b.id = bt.blog_id").
		Join(r.tbl("categories") + " c ON c.id = b.category_id").
		Join(r.tbl("users") + " u ON u.id = b.user_id").
		Where(sq.And{sq.Eq{"bt.tag_id": id}, sq.Expr("b.deleted_at IS NULL")}).
		OrderBy("b.create_at DESC").
		Limit(uint64(domain.BlogPageSize)).
		Offset(uint64((page - 1) * domain.BlogPageSize))

	sqlStr, args, _ = q.ToSql()
	r.logSQL("Tags.Blogs", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Tags.Blogs query error: %v", err)
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
			r.logger.Printf("Tags.Blogs scan error: %v", err)
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

// ---- Темы ----

func (r *Topics) Page(ctx context.Context, page int64) (domain.PageInfo[domain.Topic], error) {
	if page < 1 {
		page = 1
	}

	countQ := r.qb().Select("COUNT(*)").
		From(r.tbl("topics")).
		Where(sq.Expr("deleted_at IS NULL"))
	sqlStr, args, _ := countQ.ToSql()
	r.logSQL("Topics.Page.count", sqlStr, args)

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		r.logger.Printf("Topics.Page count error: %v", err)
		return domain.EmptyPage[domain.Topic](), err
	}

	q := r.qb().Select("t.id", "t.name", "t.description", "t.cover_image", "t.create_at", "u.id", "u.nick_name").
		From(r.tbl("topics") + " t").
		Join(r.tbl("users") + " u ON u.id = t.user_id").
		Where(sq.Expr("t.deleted_at IS NULL")).
		OrderBy("t.create_at DESC").
		Limit(uint64(domain.TopicPageSize)).
		Offset(uint64((page - 1) * domain.TopicPageSize))

	sqlStr, args, _ = q.ToSql()
	r.logSQL("Topics.Page", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Topics.Page query error: %v", err)
		return domain.EmptyPage[domain.Topic](), err
	}
	defer rows.Close()

	topics := make([]domain.Topic, 0, domain.TopicPageSize)
	for rows.Next() {
		var (
			t        domain.Topic
			createAt time.Time
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CoverImage, &createAt, &t.User.ID, &t.User.NickName); err != nil {
			r.logger.Printf("Topics.Page scan error: %v", err)
			return domain.EmptyPage[domain.Topic](), err
		}
		t.Timestamp = createAt.UnixMilli()
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return domain.EmptyPage[domain.Topic](), err
	}
	return domain.PageInfo[domain.Topic]{Page: page, Size: domain.TopicPageSize, Total: total, Data: topics}, nil
}

func (r *Topics) ByID(ctx context.Context, id domain.TopicID) (*domain.SimpleTopic, error) {
	q := r.qb().Select("id", "name").
		From(r.tbl("topics")).
		Where(sq.And{sq.Eq{"id": id}, sq.Expr("deleted_at IS NULL")})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Topics.ByID", sqlStr, args)

	var t domain.SimpleTopic
	err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Printf("Topics.ByID scan error: %v", err)
		return nil, err
	}
	return &t, nil
}

func (r *Topics) All(ctx context.Context) ([]domain.SimpleTopic, error) {
	q := r.qb().Select("id", "name").
		From(r.tbl("topics")).
		Where(sq.Expr("deleted_at IS NULL")).
		OrderBy("id ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Topics.All", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Topics.All query error: %v", err)
		return nil, err
	}
	defer rows.Close()

	var list []domain.SimpleTopic
	for rows.Next() {
		var t domain.SimpleTopic
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *Topics) UserTopics(ctx context.Context, uid domain.UserID) ([]domain.UserTopic, error) {
	q := r.qb().Select("id", "name", "description", "cover_image").
		From(r.tbl("topics")).
		Where(sq.And{sq.Eq{"user_id": uid}, sq.Expr("deleted_at IS NULL")}).
		OrderBy("create_at DESC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Topics.UserTopics", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Topics.UserTopics query error: %v", err)
		return nil, err
	}
	defer rows.Close()

	var list []domain.UserTopic
	for rows.Next() {
		var t domain.UserTopic
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CoverImage); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *Topics) Blogs(ctx context.Context, page int64, id domain.TopicID) (domain.PageInfo[domain.TopicBlog], error) {
	if page < 1 {
		page = 1
	}

	where := sq.And{sq.Eq{"b.topic_id": id}, sq.Expr("b.deleted_at IS NULL")}
	countQ := r.qb().Select("COUNT(*)").From(r.tbl("blogs") + " b").Where(where)
	sqlStr, args, _ := countQ.ToSql()
	r.logSQL("Topics.Blogs.count", sqlStr, args)

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		r.logger.Printf("Topics.Blogs count error: %v", err)
		return domain.EmptyPage[domain.TopicBlog](), err
	}

	q := r.qb().Select("b.id", "b.title", "b.description", "b.cover_image", "b.create_at", "u.id", "u.nick_name").
		From(r.tbl("blogs") + " b").
		Join(r.tbl("users") + " u ON u.id = b.user_id").
		Where(where).
		OrderBy("b.create_at DESC").
		Limit(uint64(domain.BlogPageSize)).
		Offset(uint64((page - 1) * domain.BlogPageSize))

	sqlStr, args, _ = q.ToSql()
	r.logSQL("Topics.Blogs", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Topics.Blogs query error: %v", err)
		return domain.EmptyPage[domain.TopicBlog](), err
	}
	defer rows.Close()

	blogs := make([]domain.TopicBlog, 0, domain.BlogPageSize)
	for rows.Next() {
		var (
			b        domain.TopicBlog
			createAt time.Time
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.Desc, &b.CoverImage, &createAt, &b.User.ID, &b.User.NickName); err != nil {
			r.logger.Printf("Topics.Blogs scan error: %v", err)
			return domain.EmptyPage[domain.TopicBlog](), err
		}
		b.Timestamp = createAt.UnixMilli()
		blogs = append(blogs, b)
	}
	if err := rows.Err(); err != nil {
		return domain.EmptyPage[domain.TopicBlog](), err
	}
	return domain.PageInfo[domain.TopicBlog]{Page: page, Size: domain.BlogPageSize, Total: total, Data: blogs}, nil
}

// AllBlogs — все посты темы без пагинации, для оглавления.
func (r *Topics) AllBlogs(ctx context.Context, id domain.TopicID) ([]domain.SimpleBlog, error) {
	q := r.qb().Select("id", "title").
		From(r.tbl("blogs")).
		Where(sq.And{sq.Eq{"topic_id": id}, sq.Expr("deleted_at IS NULL")}).
		OrderBy("create_at ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Topics.AllBlogs", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Topics.AllBlogs query error: %v", err)
		return nil, err
	}
	defer rows.Close()

	var blogs []domain.SimpleBlog
	for rows.Next() {
		var b domain.SimpleBlog
		if err := rows.Scan(&b.ID, &b.Title); err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

func (r *Topics) Insert(ctx context.Context, uid domain.UserID, in domain.TopicInput) error {
	q := r.qb().Insert(r.tbl("topics")).
		Columns("name", "description", "cover_image", "user_id").
		Values(in.Name, in.Description, in.CoverImage, uid)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Topics.Insert", sqlStr, args)

	start := time.Now()
	if _, err := r.pool.Exec(ctx, sqlStr, args...); err != nil {
		r.logger.Printf("Topics.Insert exec error after %s: %v", time.Since(start), err)
		return err
	}
	r.logger.Printf("Topics.Insert ok in %s name=%q", time.Since(start), in.Name)
	return nil
}
