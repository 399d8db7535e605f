package models

import (
	"strings"
	"time"
)

// Topic is one of the fixed post categories.
type Topic string

const (
	TopicPolitics Topic = "Politics"
	TopicHealth   Topic = "Health"
	TopicSport    Topic = "Sport"
	TopicTech     Topic = "Tech"
)

// Topics lists every valid topic in display order.
var Topics = []Topic{TopicPolitics, TopicHealth, TopicSport, TopicTech}

// ParseTopic matches s against the topic enumeration, ignoring case.
func ParseTopic(s string) (Topic, bool) {
	s = strings.TrimSpace(s)
	for _, t := range Topics {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

// PostStatus is derived from the expiry timestamp and never stored.
type PostStatus string

const (
	StatusLive    PostStatus = "Live"
	StatusExpired PostStatus = "Expired"
)

// ParseStatus matches s against Live/Expired, ignoring case.
func ParseStatus(s string) (PostStatus, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, string(StatusLive)):
		return StatusLive, true
	case strings.EqualFold(s, string(StatusExpired)):
		return StatusExpired, true
	}
	return "", false
}

// ReactionKind distinguishes likes from dislikes in post_reactions.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Post is a time-limited message tagged with topics.
//
// AuthorName, LikeCount and DislikeCount are read-only columns produced by
// subqueries in the repository. Topics, LikedBy, DislikedBy and Comments are
// hydrated from their own tables. Status and TimeLeft are filled in at
// response time.
type Post struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:300;not null" json:"title"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	AuthorID     uint       `gorm:"not null;index" json:"authorId"`
	AuthorName   string     `gorm:"->;-:migration" json:"authorName"`
	ExpiresAt    time.Time  `gorm:"not null;index" json:"expiresAt"`
	CreatedAt    time.Time  `gorm:"index" json:"createdAt"`
	LikeCount    int        `gorm:"->;-:migration" json:"likeCount"`
	DislikeCount int        `gorm:"->;-:migration" json:"dislikeCount"`
	Topics       []Topic    `gorm:"-" json:"topics"`
	LikedBy      []uint     `gorm:"-" json:"likedBy"`
	DislikedBy   []uint     `gorm:"-" json:"dislikedBy"`
	Comments     []Comment  `gorm:"-" json:"comments"`
	Status       PostStatus `gorm:"-" json:"status"`
	TimeLeft     string     `gorm:"-" json:"timeLeft"`
}

// HasLiked reports whether userID is in LikedBy.
func (p *Post) HasLiked(userID uint) bool {
	return containsID(p.LikedBy, userID)
}

// HasDisliked reports whether userID is in DislikedBy.
func (p *Post) HasDisliked(userID uint) bool {
	return containsID(p.DislikedBy, userID)
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// PostTopic stores one topic membership of a post.
type PostTopic struct {
	PostID uint  `gorm:"primaryKey;autoIncrement:false"`
	Topic  Topic `gorm:"primaryKey;size:32;index"`
}

// PostReaction is a like or dislike. The composite key makes a repeated
// reaction of the same kind impossible at the storage layer.
type PostReaction struct {
	PostID    uint         `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint         `gorm:"primaryKey;autoIncrement:false"`
	Kind      ReactionKind `gorm:"primaryKey;size:16"`
	CreatedAt time.Time
}
