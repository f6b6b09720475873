package models

import (
	"time"
)

// Follow represents a directed follow edge between two users. The composite
// primary key guarantees at most one edge per ordered pair.
type Follow struct {
	FollowerID int64     `gorm:"primaryKey;autoIncrement:false;column:follower_id"`
	FollowedID int64     `gorm:"primaryKey;autoIncrement:false;column:followed_id"`
	CreatedAt  time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Follower *User `gorm:"foreignKey:FollowerID;references:ID"`
	Followed *User `gorm:"foreignKey:FollowedID;references:ID"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}
