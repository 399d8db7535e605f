package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mingle/internal/auth"
	"mingle/internal/middleware"
	"mingle/internal/models"
	"mingle/internal/policy"
	"mingle/internal/repository"

	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// Seed makes a run reproducible; zero draws one from the clock.
	Seed       int64
	BcryptCost int
	MaxAge     time.Duration
	Now        func() time.Time
}

// Stats summarizes what a run wrote.
type Stats struct {
	Users    int
	Posts    int
	Likes    int
	Dislikes int
	Comments int
}

// Seeder writes demo data through the repositories so the stored rows look
// exactly like ones produced by the API.
type Seeder struct {
	db      *gorm.DB
	users   repository.UserRepository
	posts   repository.PostRepository
	hasher  auth.PasswordHasher
	factory *Factory
	now     func() time.Time
}

// NewSeeder returns a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Seeder{
		db:      db,
		users:   repository.NewUserRepository(db),
		posts:   repository.NewPostRepository(db),
		hasher:  auth.NewBcryptHasher(opts.BcryptCost),
		factory: NewFactory(opts.Seed, opts.MaxAge),
		now:     now,
	}
}

// Run optionally clears the database and then seeds users, posts and
// interactions.
func (s *Seeder) Run(ctx context.Context, opts Options) (Stats, error) {
	var stats Stats

	if opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return stats, err
		}
	}

	users, err := s.SeedUsers(ctx, opts.NumUsers)
	if err != nil {
		return stats, fmt.Errorf("failed to create users: %w", err)
	}
	stats.Users = len(users)

	posts, err := s.SeedPosts(ctx, users, opts.NumPosts)
	if err != nil {
		return stats, fmt.Errorf("failed to create posts: %w", err)
	}
	stats.Posts = len(posts)

	if err := s.SeedEngagement(ctx, users, posts, &stats); err != nil {
		return stats, fmt.Errorf("failed to create interactions: %w", err)
	}

	middleware.Logger.Info("Database seeding completed",
		slog.Int("users", stats.Users),
		slog.Int("posts", stats.Posts),
		slog.Int("likes", stats.Likes),
		slog.Int("dislikes", stats.Dislikes),
		slog.Int("comments", stats.Comments),
	)
	return stats, nil
}

// ClearAll removes every row, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	middleware.Logger.Info("Clearing existing data")

	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{
		&models.Comment{},
		&models.PostReaction{},
		&models.PostTopic{},
		&models.Post{},
		&models.User{},
	} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// SeedUsers creates count users sharing DefaultPassword. The password is
// hashed once for the whole batch.
func (s *Seeder) SeedUsers(ctx context.Context, count int) ([]*models.User, error) {
	if count <= 0 {
		return nil, nil
	}

	digest, err := s.hasher.Hash(DefaultPassword)
	if err != nil {
		return nil, err
	}

	// Offset past existing rows so a second run without cleaning does not
	// reuse emails.
	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&existing).Error; err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user := s.factory.BuildUser(int(existing)+i+1, digest)
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, models.ErrDuplicateEmail) {
				middleware.Logger.Warn("Skipping duplicate seed user", slog.String("email", user.Email))
				continue
			}
			return users, err
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedPosts creates count posts by randomly chosen users.
func (s *Seeder) SeedPosts(ctx context.Context, users []*models.User, count int) ([]*models.Post, error) {
	if count <= 0 || len(users) == 0 {
		return nil, nil
	}

	now := s.now()
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[s.factory.Pick(len(users))]
		post := s.factory.BuildPost(author.ID, now)
		if err := s.posts.Create(ctx, post); err != nil {
			return posts, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// SeedEngagement has other users like, dislike and comment on each post. Every
// interaction is checked against the post at its creation time, when it was
// still live, using the same rules as the API.
func (s *Seeder) SeedEngagement(ctx context.Context, users []*models.User, posts []*models.Post, stats *Stats) error {
	if len(users) < 2 {
		return nil
	}

	for _, post := range posts {
		at := post.CreatedAt.Add(time.Minute)
		reactors := s.factory.Pick(min(len(users), 6))

		for i := 0; i < reactors; i++ {
			user := users[s.factory.Pick(len(users))]
			if user.ID == post.AuthorID {
				continue
			}

			kind, rule := models.ReactionLike, policy.CanLike
			if s.factory.Chance(25) {
				kind, rule = models.ReactionDislike, policy.CanDislike
			}
			_, err := s.posts.React(ctx, post.ID, user.ID, kind, func(p *models.Post) error {
				return rule(p, user.ID, at)
			})
			switch {
			case errors.Is(err, models.ErrDuplicateInteraction):
				// the same user was drawn twice
			case err != nil:
				return err
			case kind == models.ReactionLike:
				stats.Likes++
			default:
				stats.Dislikes++
			}

			if s.factory.Chance(40) {
				comment := &models.Comment{
					AuthorID:  user.ID,
					Text:      s.factory.BuildComment(),
					CreatedAt: at,
				}
				_, err := s.posts.AddComment(ctx, post.ID, comment, func(p *models.Post) error {
					return policy.CanComment(p, user.ID, at)
				})
				if err != nil {
					return err
				}
				stats.Comments++
			}
		}
	}
	return nil
}
