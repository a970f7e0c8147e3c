package models

import "time"

// Follow is a directed edge: AuthorID follows FollowedID.
// The composite unique index is the authoritative guard against duplicate
// edges and, led by FollowedID, also serves follower lookups.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowedID uint      `json:"followed_id" gorm:"not null;uniqueIndex:idx_follows_followed_author"`
	AuthorID   uint      `json:"author_id" gorm:"not null;index;uniqueIndex:idx_follows_followed_author"`
	CreatedAt  time.Time `json:"created_at"`

	Followed User `json:"-" gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
	Author   User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// FollowRequest is the body of a follow or unfollow call. Username is kept
// loosely typed because clients are not trusted to send a string.
type FollowRequest struct {
	Username any `json:"username"`
}
