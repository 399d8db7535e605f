package service

import (
	"context"
	"strings"
	"time"

	"mingle/internal/models"
	"mingle/internal/observability"
	"mingle/internal/policy"
	"mingle/internal/repository"
	"mingle/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	posts repository.PostRepository
	now   func() time.Time
}

type CreatePostInput struct {
	AuthorID        uint
	Title           string
	Content         string
	Topics          []string
	ExpirationHours *float64
}

// ListPostsInput carries raw query values; empty strings mean no filter.
type ListPostsInput struct {
	Topic  string
	Status string
	SortBy string
	Limit  int
	Offset int
}

// NewPostService returns a PostService. A nil clock uses time.Now.
func NewPostService(posts repository.PostRepository, now func() time.Time) *PostService {
	if now == nil {
		now = time.Now
	}
	return &PostService{posts: posts, now: now}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "post_service", "create",
		attribute.Int("user.id", int(in.AuthorID)),
	)
	defer func() {
		span.End(err)
		observability.LogServiceCall(ctx, "post", "create", err)
	}()

	title, err := validation.ValidateTitle(in.Title)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	content, err := validation.ValidateContent(in.Content)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	topics, err := validation.ParseTopics(in.Topics)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	lifetime, err := validation.ExpirationDuration(in.ExpirationHours)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	now := s.now().UTC()
	post = &models.Post{
		Title:     title,
		Content:   content,
		AuthorID:  in.AuthorID,
		Topics:    topics,
		CreatedAt: now,
		ExpiresAt: now.Add(lifetime),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	for _, t := range topics {
		observability.PostsCreated.WithLabelValues(string(t)).Inc()
	}
	span.AddAttributes(attribute.Int("post.id", int(post.ID)))

	created, err := s.posts.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return s.decorate(created, now), nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "post_service", "get",
		attribute.Int("post.id", int(id)),
	)
	defer func() {
		span.End(err)
		observability.LogServiceCall(ctx, "post", "get", err, "post_id", id)
	}()

	post, err = s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decorate(post, s.now()), nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (posts []*models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "post_service", "list",
		attribute.String("filter.topic", in.Topic),
		attribute.String("filter.status", in.Status),
		attribute.String("filter.sort", in.SortBy),
	)
	defer func() {
		span.End(err)
		observability.LogServiceCall(ctx, "post", "list", err)
	}()

	filter := repository.PostFilter{
		Now:    s.now(),
		Limit:  in.Limit,
		Offset: in.Offset,
	}

	if in.Topic != "" {
		topic, ok := models.ParseTopic(in.Topic)
		if !ok {
			return nil, models.NewValidationError("Invalid topic (allowed: Politics, Health, Sport, Tech)")
		}
		filter.Topic = topic
	}
	if in.Status != "" {
		status, ok := models.ParseStatus(in.Status)
		if !ok {
			return nil, models.NewValidationError("Invalid status (allowed: Live, Expired)")
		}
		filter.Status = status
	}
	switch strings.ToLower(strings.TrimSpace(in.SortBy)) {
	case "", repository.SortRecent:
		filter.Sort = repository.SortRecent
	case repository.SortInterest:
		filter.Sort = repository.SortInterest
	default:
		return nil, models.NewValidationError("Invalid sortBy (allowed: recent, interest)")
	}

	posts, err = s.posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		s.decorate(p, filter.Now)
	}
	span.AddAttributes(attribute.Int("result.count", len(posts)))
	return posts, nil
}

// LikePost adds userID to the post's likes and returns the new like count.
func (s *PostService) LikePost(ctx context.Context, postID, userID uint) (int, error) {
	return s.react(ctx, postID, userID, models.ReactionLike, policy.CanLike)
}

// DislikePost adds userID to the post's dislikes and returns the new count.
func (s *PostService) DislikePost(ctx context.Context, postID, userID uint) (int, error) {
	return s.react(ctx, postID, userID, models.ReactionDislike, policy.CanDislike)
}

func (s *PostService) react(
	ctx context.Context,
	postID, userID uint,
	kind models.ReactionKind,
	rule func(*models.Post, uint, time.Time) error,
) (count int, err error) {
	ctx, span := observability.StartSpan(ctx, "post_service", string(kind),
		attribute.Int("post.id", int(postID)),
		attribute.Int("user.id", int(userID)),
	)
	defer func() {
		span.End(err)
		observability.RecordInteraction(string(kind), err)
		observability.LogServiceCall(ctx, "post", string(kind), err, "post_id", postID)
	}()

	return s.posts.React(ctx, postID, userID, kind, func(p *models.Post) error {
		return rule(p, userID, s.now())
	})
}

// CommentOnPost appends a comment and returns the post's comments in order.
func (s *PostService) CommentOnPost(ctx context.Context, postID, userID uint, text string) (comments []models.Comment, err error) {
	ctx, span := observability.StartSpan(ctx, "post_service", "comment",
		attribute.Int("post.id", int(postID)),
		attribute.Int("user.id", int(userID)),
	)
	defer func() {
		span.End(err)
		observability.RecordInteraction("comment", err)
		observability.LogServiceCall(ctx, "post", "comment", err, "post_id", postID)
	}()

	text, err = validation.ValidateComment(text)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	now := s.now().UTC()
	comment := &models.Comment{
		AuthorID:  userID,
		Text:      text,
		CreatedAt: now,
	}
	return s.posts.AddComment(ctx, postID, comment, func(p *models.Post) error {
		return policy.CanComment(p, userID, now)
	})
}

// DeletePost removes the post permanently. Only its author may do so, live
// or expired.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "post_service", "delete",
		attribute.Int("post.id", int(postID)),
		attribute.Int("user.id", int(userID)),
	)
	defer func() {
		span.End(err)
		observability.RecordInteraction("delete", err)
		observability.LogServiceCall(ctx, "post", "delete", err, "post_id", postID)
	}()

	return s.posts.Delete(ctx, postID, func(p *models.Post) error {
		return policy.CanDelete(p, userID)
	})
}

func (s *PostService) decorate(post *models.Post, now time.Time) *models.Post {
	post.Status = policy.Status(post, now)
	post.TimeLeft = policy.TimeLeft(post, now)
	return post
}
