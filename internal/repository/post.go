package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"mingle/internal/models"
	"mingle/internal/observability"
	"mingle/internal/policy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sort orders accepted by PostFilter.
const (
	SortRecent   = "recent"
	SortInterest = "interest"
)

// MaxPageSize caps the number of posts returned by List.
const MaxPageSize = 50

// PostFilter selects and orders posts for List. Zero values mean "any".
type PostFilter struct {
	Topic  models.Topic
	Status models.PostStatus
	Sort   string
	Now    time.Time
	Limit  int
	Offset int
}

// PostCheck runs inside the write transaction against the freshly loaded
// post. A non-nil error aborts the write and is returned unchanged.
type PostCheck func(post *models.Post) error

// PostRepository stores posts with their topics, reactions and comments.
// Every mutating method runs its check and write in one transaction.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter) ([]*models.Post, error)
	React(ctx context.Context, postID, userID uint, kind models.ReactionKind, check PostCheck) (int, error)
	AddComment(ctx context.Context, postID uint, comment *models.Comment, check PostCheck) ([]models.Comment, error)
	Delete(ctx context.Context, postID uint, check PostCheck) error
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

// Author name and reaction counts are computed in the same statement so the
// counts always equal the size of the reaction sets.
const postColumns = "posts.*, " +
	"(SELECT users.name FROM users WHERE users.id = posts.author_id) AS author_name, " +
	"(SELECT COUNT(*) FROM post_reactions WHERE post_reactions.post_id = posts.id AND post_reactions.kind = ?) AS like_count, " +
	"(SELECT COUNT(*) FROM post_reactions WHERE post_reactions.post_id = posts.id AND post_reactions.kind = ?) AS dislike_count"

func withPostDetails(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Post{}).Select(postColumns, models.ReactionLike, models.ReactionDislike)
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()

	// Stored in UTC so expiry comparisons agree across drivers.
	post.ExpiresAt = post.ExpiresAt.UTC()
	if !post.CreatedAt.IsZero() {
		post.CreatedAt = post.CreatedAt.UTC()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		rows := make([]models.PostTopic, 0, len(post.Topics))
		for _, t := range post.Topics {
			rows = append(rows, models.PostTopic{PostID: post.ID, Topic: t})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return r.wrapErr(ctx, err, "create")
	}
	r.log.LogWrite(ctx, "create", "post_id", post.ID)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("get_by_id", "posts")()

	db := r.db.WithContext(ctx)
	post, err := loadPost(db, id)
	if err != nil {
		return nil, r.wrapErr(ctx, err, "get_by_id")
	}
	if err := hydrate(db, []*models.Post{post}, true); err != nil {
		return nil, r.wrapErr(ctx, err, "get_by_id")
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*models.Post, error) {
	defer observability.TrackQuery("list", "posts")()

	db := r.db.WithContext(ctx)
	q := withPostDetails(db)

	if filter.Topic != "" {
		q = q.Where("EXISTS (SELECT 1 FROM post_topics WHERE post_topics.post_id = posts.id AND post_topics.topic = ?)", filter.Topic)
	}

	now := filter.Now.UTC()
	switch filter.Status {
	case models.StatusLive:
		q = q.Where("posts.expires_at >= ?", now)
	case models.StatusExpired:
		q = q.Where("posts.expires_at < ?", now)
	}

	limit := filter.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var posts []*models.Post
	if err := applySort(q, filter.Sort).Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return nil, r.wrapErr(ctx, err, "list")
	}
	if err := hydrate(db, posts, true); err != nil {
		return nil, r.wrapErr(ctx, err, "list")
	}
	return posts, nil
}

// applySort orders by the like_count/dislike_count aliases from postColumns.
func applySort(db *gorm.DB, order string) *gorm.DB {
	switch order {
	case SortInterest:
		return db.Order("like_count DESC, dislike_count DESC, posts.created_at DESC, posts.id DESC")
	default:
		return db.Order("posts.created_at DESC, posts.id DESC")
	}
}

func (r *postRepository) React(ctx context.Context, postID, userID uint, kind models.ReactionKind, check PostCheck) (int, error) {
	defer observability.TrackQuery("react", "post_reactions")()

	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := loadForWrite(tx, postID)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(post); err != nil {
				return err
			}
		}

		// The composite primary key is the real duplicate guard; a conflicting
		// insert affects no rows.
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PostReaction{PostID: postID, UserID: userID, Kind: kind})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return policy.DuplicateInteraction(kind)
		}

		return tx.Model(&models.PostReaction{}).
			Where("post_id = ? AND kind = ?", postID, kind).
			Count(&count).Error
	})
	if err != nil {
		return 0, r.wrapErr(ctx, err, "react")
	}

	r.log.LogWrite(ctx, "react", "post_id", postID, "kind", string(kind))
	return int(count), nil
}

func (r *postRepository) AddComment(ctx context.Context, postID uint, comment *models.Comment, check PostCheck) ([]models.Comment, error) {
	defer observability.TrackQuery("add_comment", "comments")()

	var comments []models.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := loadForWrite(tx, postID)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(post); err != nil {
				return err
			}
		}

		comment.PostID = postID
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		byPost, err := loadComments(tx, []uint{postID})
		if err != nil {
			return err
		}
		comments = byPost[postID]
		return nil
	})
	if err != nil {
		return nil, r.wrapErr(ctx, err, "add_comment")
	}

	r.log.LogWrite(ctx, "add_comment", "post_id", postID, "comment_id", comment.ID)
	return comments, nil
}

func (r *postRepository) Delete(ctx context.Context, postID uint, check PostCheck) error {
	defer observability.TrackQuery("delete", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := loadForWrite(tx, postID)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(post); err != nil {
				return err
			}
		}

		for _, child := range []any{&models.PostReaction{}, &models.Comment{}, &models.PostTopic{}} {
			if err := tx.Where("post_id = ?", postID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Post{}, postID).Error
	})
	if err != nil {
		return r.wrapErr(ctx, err, "delete")
	}

	r.log.LogWrite(ctx, "delete", "post_id", postID)
	return nil
}

// wrapErr passes AppErrors through and hides everything else behind an
// internal error.
func (r *postRepository) wrapErr(ctx context.Context, err error, operation string) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	r.log.LogError(ctx, err, operation)
	return models.NewInternalError(err)
}

// loadForWrite locks the post row on Postgres, then loads it with its
// reaction sets so checks see the committed state.
func loadForWrite(tx *gorm.DB, id uint) (*models.Post, error) {
	if tx.Dialector.Name() == "postgres" {
		var locked models.Post
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", id).
			Take(&locked).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Post", id)
			}
			return nil, err
		}
	}

	post, err := loadPost(tx, id)
	if err != nil {
		return nil, err
	}
	if err := hydrate(tx, []*models.Post{post}, false); err != nil {
		return nil, err
	}
	return post, nil
}

func loadPost(db *gorm.DB, id uint) (*models.Post, error) {
	var post models.Post
	if err := withPostDetails(db).Where("posts.id = ?", id).Take(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return &post, nil
}

// hydrate fills topics, reaction sets and optionally comments for posts in
// three queries regardless of how many posts are passed.
func hydrate(db *gorm.DB, posts []*models.Post, withComments bool) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		p.Topics = []models.Topic{}
		p.LikedBy = []uint{}
		p.DislikedBy = []uint{}
		p.Comments = []models.Comment{}
	}

	var topics []models.PostTopic
	if err := db.Where("post_id IN ?", ids).Find(&topics).Error; err != nil {
		return err
	}
	topicsByPost := make(map[uint][]models.Topic, len(posts))
	for _, t := range topics {
		topicsByPost[t.PostID] = append(topicsByPost[t.PostID], t.Topic)
	}

	var reactions []models.PostReaction
	if err := db.Where("post_id IN ?", ids).
		Order("created_at ASC, user_id ASC").
		Find(&reactions).Error; err != nil {
		return err
	}
	likes := make(map[uint][]uint, len(posts))
	dislikes := make(map[uint][]uint, len(posts))
	for _, rc := range reactions {
		switch rc.Kind {
		case models.ReactionLike:
			likes[rc.PostID] = append(likes[rc.PostID], rc.UserID)
		case models.ReactionDislike:
			dislikes[rc.PostID] = append(dislikes[rc.PostID], rc.UserID)
		}
	}

	var comments map[uint][]models.Comment
	if withComments {
		var err error
		if comments, err = loadComments(db, ids); err != nil {
			return err
		}
	}

	for _, p := range posts {
		if ts, ok := topicsByPost[p.ID]; ok {
			sortTopics(ts)
			p.Topics = ts
		}
		if likedBy, ok := likes[p.ID]; ok {
			p.LikedBy = likedBy
		}
		if dislikedBy, ok := dislikes[p.ID]; ok {
			p.DislikedBy = dislikedBy
		}
		if cs, ok := comments[p.ID]; ok {
			p.Comments = cs
		}
	}
	return nil
}

func loadComments(db *gorm.DB, postIDs []uint) (map[uint][]models.Comment, error) {
	var comments []models.Comment
	if err := db.Model(&models.Comment{}).
		Select("comments.*, users.name AS author_name").
		Joins("LEFT JOIN users ON users.id = comments.author_id").
		Where("comments.post_id IN ?", postIDs).
		Order("comments.created_at ASC, comments.id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	byPost := make(map[uint][]models.Comment, len(postIDs))
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	return byPost, nil
}

// sortTopics orders topics as they appear in models.Topics.
func sortTopics(ts []models.Topic) {
	rank := func(t models.Topic) int {
		for i, known := range models.Topics {
			if known == t {
				return i
			}
		}
		return len(models.Topics)
	}
	sort.Slice(ts, func(i, j int) bool { return rank(ts[i]) < rank(ts[j]) })
}
