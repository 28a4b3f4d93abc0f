package models

// FeedComment is a comment as shown under a post on the feed.
type FeedComment struct {
	ID     uint   `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

// FeedPost is a post annotated with its author, like count and comments.
type FeedPost struct {
	ID       uint          `json:"id"`
	Author   string        `json:"author"`
	Content  string        `json:"content"`
	Likes    int64         `json:"likes"`
	Comments []FeedComment `json:"comments"`
}
