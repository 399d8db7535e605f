package models

import "time"

// Comment belongs to a post and is removed with it.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;index" json:"postId"`
	AuthorID   uint      `gorm:"not null" json:"authorId"`
	AuthorName string    `gorm:"->;-:migration" json:"authorName"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}
