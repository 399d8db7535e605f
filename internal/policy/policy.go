// Package policy decides who may interact with a post and derives its
// lifecycle state. Every function is pure: the clock is passed in.
package policy

import (
	"fmt"
	"time"

	"mingle/internal/models"
)

// Status returns Live while now <= expiresAt and Expired afterwards.
func Status(post *models.Post, now time.Time) models.PostStatus {
	if now.After(post.ExpiresAt) {
		return models.StatusExpired
	}
	return models.StatusLive
}

// TimeLeft renders the remaining lifetime using its two most significant
// units, or "Expired" once Status reports Expired.
func TimeLeft(post *models.Post, now time.Time) string {
	if Status(post, now) == models.StatusExpired {
		return string(models.StatusExpired)
	}

	remaining := post.ExpiresAt.Sub(now)
	days := int(remaining / (24 * time.Hour))
	hours := int(remaining/time.Hour) % 24
	minutes := int(remaining/time.Minute) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// CanInteract reports whether likes, dislikes and comments are still accepted.
func CanInteract(post *models.Post, now time.Time) bool {
	return Status(post, now) == models.StatusLive
}

// CanLike checks, in order, self interaction, expiry and a repeated like.
func CanLike(post *models.Post, actorID uint, now time.Time) error {
	if err := canReact(post, actorID, now, "like"); err != nil {
		return err
	}
	if post.HasLiked(actorID) {
		return duplicateInteraction("You have already liked this post")
	}
	return nil
}

// CanDislike mirrors CanLike over the dislike set.
func CanDislike(post *models.Post, actorID uint, now time.Time) error {
	if err := canReact(post, actorID, now, "dislike"); err != nil {
		return err
	}
	if post.HasDisliked(actorID) {
		return duplicateInteraction("You have already disliked this post")
	}
	return nil
}

func canReact(post *models.Post, actorID uint, now time.Time, verb string) error {
	if post.AuthorID == actorID {
		return models.NewForbiddenError("You cannot "+verb+" your own post", models.ErrSelfInteraction)
	}
	if !CanInteract(post, now) {
		return postExpired()
	}
	return nil
}

// CanComment only rejects expired posts; authors may comment on their own.
func CanComment(post *models.Post, _ uint, now time.Time) error {
	if !CanInteract(post, now) {
		return postExpired()
	}
	return nil
}

// CanDelete allows the author only. Expiry does not matter.
func CanDelete(post *models.Post, actorID uint) error {
	if post.AuthorID != actorID {
		return models.NewForbiddenError("Only the author can delete this post", models.ErrNotAuthor)
	}
	return nil
}

func postExpired() error {
	return models.NewForbiddenError("Post has expired", models.ErrPostExpired)
}

func duplicateInteraction(msg string) error {
	return models.NewConflictError(msg, models.ErrDuplicateInteraction)
}

// DuplicateInteraction is returned by stores when the guarded write finds an
// existing reaction.
func DuplicateInteraction(kind models.ReactionKind) error {
	if kind == models.ReactionDislike {
		return duplicateInteraction("You have already disliked this post")
	}
	return duplicateInteraction("You have already liked this post")
}
