// Package seed provides helpers to create demo data for development and
// tests. Nothing in here runs in the request path.
package seed

import (
	"fmt"
	"strings"
	"time"

	"mingle/internal/models"
	"mingle/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds domain entities with fake content. It does not persist
// anything; the Seeder decides where the entities go.
type Factory struct {
	faker *gofakeit.Faker
	// spread of created_at into the past
	maxAge time.Duration
}

// NewFactory returns a Factory. A zero seed draws one from the clock.
func NewFactory(seed int64, maxAge time.Duration) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if maxAge <= 0 {
		maxAge = 72 * time.Hour
	}
	return &Factory{faker: gofakeit.New(seed), maxAge: maxAge}
}

// BuildUser returns a user whose email embeds n so repeated calls never
// collide on the unique index. digest is stored as-is.
func (f *Factory) BuildUser(n int, digest string) *models.User {
	first := f.faker.FirstName()
	last := f.faker.LastName()
	name := first + " " + last

	local := strings.ToLower(first + "." + last)
	local = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r == '.' {
			return r
		}
		return -1
	}, local)

	return &models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s%d@example.com", local, n),
		Password: digest,
	}
}

// BuildPost returns a post by author created somewhere in the last maxAge
// before now with a lifetime of 1 to 48 hours, so a batch mixes live and
// expired posts.
func (f *Factory) BuildPost(authorID uint, now time.Time, overrides ...func(*models.Post)) *models.Post {
	title := strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 8)), ".")
	if len(title) > validation.MaxTitleLength {
		title = title[:validation.MaxTitleLength]
	}

	age := time.Duration(f.faker.Number(0, int(f.maxAge/time.Minute))) * time.Minute
	createdAt := now.Add(-age).UTC()
	lifetime := time.Duration(f.faker.Number(1, 48)) * time.Hour

	post := &models.Post{
		Title:     title,
		Content:   f.faker.Paragraph(1, 3, 12, " "),
		AuthorID:  authorID,
		Topics:    f.pickTopics(),
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(lifetime),
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// BuildComment returns a comment body of one or two sentences.
func (f *Factory) BuildComment() string {
	return f.faker.Sentence(f.faker.Number(4, 14))
}

// Chance reports true with probability percent/100.
func (f *Factory) Chance(percent int) bool {
	return f.faker.Number(1, 100) <= percent
}

// Pick returns a random index in [0, n).
func (f *Factory) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}

// pickTopics returns one to three distinct topics in enum order.
func (f *Factory) pickTopics() []models.Topic {
	want := f.faker.Number(1, 3)
	order := make([]int, len(models.Topics))
	for i := range order {
		order[i] = i
	}
	f.faker.ShuffleInts(order)

	picked := make([]models.Topic, 0, want)
	for _, i := range order[:want] {
		picked = append(picked, models.Topics[i])
	}

	out := make([]models.Topic, 0, want)
	for _, t := range models.Topics {
		for _, p := range picked {
			if p == t {
				out = append(out, t)
			}
		}
	}
	return out
}
