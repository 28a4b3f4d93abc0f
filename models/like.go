package models

import "time"

// Like records that a user liked a post.
// The combination of PostID and UserID is unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user,priority:1" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user,priority:2" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RequiredIndexes lists indexes that must exist even on tables created earlier.
func (*Like) RequiredIndexes() []string {
	return []string{"idx_likes_post_user"}
}

// All returns every persisted model in creation order.
func All() []interface{} {
	return []interface{}{&User{}, &Post{}, &Comment{}, &Like{}}
}
