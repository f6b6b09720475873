package models

import (
	"database/sql"
	"time"
)

// Post represents a text/image post authored by a user
type Post struct {
	ID        int64         `gorm:"primaryKey;autoIncrement;column:id"`
	Content   string        `gorm:"type:text;not null;column:content"`
	ImageFile string        `gorm:"type:varchar(64);not null;default:'default.jpg';column:image_file"`
	CreatedAt time.Time     `gorm:"not null;index;column:created_at"`
	AuthorID  sql.NullInt64 `gorm:"column:author_id"`

	// Relationships
	Author   *User      `gorm:"foreignKey:AuthorID;references:ID"`
	Comments []Comment  `gorm:"foreignKey:PostID;references:ID"`
	Likes    []PostLike `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// AuthoredBy reports whether the given user wrote the post
func (p *Post) AuthoredBy(userID int64) bool {
	return p.AuthorID.Valid && p.AuthorID.Int64 == userID
}

// Comment represents a flat comment attached to a post
type Comment struct {
	ID        int64         `gorm:"primaryKey;autoIncrement;column:id"`
	Body      string        `gorm:"type:text;not null;column:body"`
	CreatedAt time.Time     `gorm:"not null;index;column:created_at"`
	AuthorID  sql.NullInt64 `gorm:"column:author_id"`
	PostID    int64         `gorm:"not null;column:post_id"`

	// Relationships
	Author *User `gorm:"foreignKey:AuthorID;references:ID"`
	Post   *Post `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// AuthoredBy reports whether the given user wrote the comment
func (c *Comment) AuthoredBy(userID int64) bool {
	return c.AuthorID.Valid && c.AuthorID.Int64 == userID
}

// PostLike represents a "user liked post" edge. The composite primary key
// guarantees at most one edge per pair, so like/unlike are idempotent.
type PostLike struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false;column:user_id"`
	PostID    int64     `gorm:"primaryKey;autoIncrement:false;column:post_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID"`
	Post *Post `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for PostLike
func (PostLike) TableName() string {
	return "post_likes"
}
