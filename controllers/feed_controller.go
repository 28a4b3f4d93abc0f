package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/minisocial/middleware"
	"github.com/cppla/minisocial/models"
	"github.com/cppla/minisocial/utils"
	"github.com/cppla/minisocial/views"
)

// FeedController renders the single chronological feed.
type FeedController struct {
	db *gorm.DB
}

// NewFeedController creates a FeedController.
func NewFeedController(db *gorm.DB) *FeedController {
	return &FeedController{db: db}
}

// Home renders every post, newest first, with like counts and comments.
func (f *FeedController) Home(ctx *gin.Context) {
	posts, err := BuildFeed(ctx.Request.Context(), f.db)
	if err != nil {
		serverError(ctx, "failed to build feed", err)
		return
	}
	page := middleware.PageFor(ctx, "Social Feed", views.KindFeed)
	page.Posts = posts
	views.Render(ctx, http.StatusOK, page)
}

// APIFeed returns the feed as JSON.
func (f *FeedController) APIFeed(ctx *gin.Context) {
	posts, err := BuildFeed(ctx.Request.Context(), f.db)
	if err != nil {
		utils.Sugar.Errorw("failed to build feed", "err", err)
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeFeedUnavailable, "failed to load feed")
		return
	}
	utils.Success(ctx, gin.H{"items": posts})
}

type feedRow struct {
	ID      uint
	Author  string
	Content string
}

type likeCount struct {
	PostID uint
	Likes  int64
}

type commentRow struct {
	ID     uint
	PostID uint
	Author string
	Text   string
}

// BuildFeed assembles all posts in descending id order. Each post carries its author's
// username, its like count and its comments in insertion order. Posts whose author row
// is missing are left out. Three queries are issued regardless of the number of posts.
func BuildFeed(ctx context.Context, db *gorm.DB) ([]models.FeedPost, error) {
	db = db.WithContext(ctx)

	var rows []feedRow
	if err := db.Table("posts").
		Select("posts.id AS id, users.username AS author, posts.content AS content").
		Joins("JOIN users ON users.id = posts.user_id").
		Order("posts.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]models.FeedPost, len(rows))
	byID := make(map[uint]int, len(rows))
	for i, r := range rows {
		posts[i] = models.FeedPost{
			ID:       r.ID,
			Author:   r.Author,
			Content:  r.Content,
			Comments: []models.FeedComment{},
		}
		byID[r.ID] = i
	}
	if len(posts) == 0 {
		return posts, nil
	}

	var counts []likeCount
	if err := db.Model(&models.Like{}).
		Select("post_id, COUNT(*) AS likes").
		Group("post_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	for _, c := range counts {
		if i, ok := byID[c.PostID]; ok {
			posts[i].Likes = c.Likes
		}
	}

	var comments []commentRow
	if err := db.Table("comments").
		Select("comments.id AS id, comments.post_id AS post_id, users.username AS author, comments.text AS text").
		Joins("JOIN users ON users.id = comments.user_id").
		Order("comments.id ASC").
		Scan(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	for _, c := range comments {
		if i, ok := byID[c.PostID]; ok {
			posts[i].Comments = append(posts[i].Comments, models.FeedComment{
				ID:     c.ID,
				Author: c.Author,
				Text:   c.Text,
			})
		}
	}
	return posts, nil
}
