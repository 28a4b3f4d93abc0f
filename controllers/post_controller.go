package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/minisocial/middleware"
	"github.com/cppla/minisocial/models"
	"github.com/cppla/minisocial/utils"
	"github.com/cppla/minisocial/views"
)

// PostController manages posts, likes and comments. All of its routes sit behind
// middleware.AuthRequired.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// NewPostForm shows the post form.
func (p *PostController) NewPostForm(ctx *gin.Context) {
	render(ctx, "Create Post", views.KindPost)
}

// CreatePost stores a post owned by the session user.
func (p *PostController) CreatePost(ctx *gin.Context) {
	content, ok := ctx.GetPostForm("content")
	if !ok {
		badRequest(ctx, "Content is required.")
		return
	}
	userID, _ := middleware.CurrentUser(ctx)

	post := models.Post{UserID: userID, Content: content}
	if err := p.db.WithContext(ctx.Request.Context()).Create(&post).Error; err != nil {
		serverError(ctx, "failed to create post", err)
		return
	}
	ctx.Redirect(http.StatusFound, "/")
}

// Like records a like by the session user. Repeating it is a no-op.
func (p *PostController) Like(ctx *gin.Context) {
	postID, ok := p.loadPost(ctx)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUser(ctx)

	// unique (post_id, user_id) index + DO NOTHING keeps this atomic under concurrent requests
	res := p.db.WithContext(ctx.Request.Context()).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Like{PostID: postID, UserID: userID})
	if res.Error != nil {
		serverError(ctx, "failed to like post", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.Sugar.Debugw("duplicate like ignored", "post_id", postID, "user_id", userID)
	}
	ctx.Redirect(http.StatusFound, "/")
}

// CommentForm shows the comment form for a post.
func (p *PostController) CommentForm(ctx *gin.Context) {
	postID, ok := p.loadPost(ctx)
	if !ok {
		return
	}
	page := middleware.PageFor(ctx, "Comment", views.KindComment)
	page.PostID = postID
	views.Render(ctx, http.StatusOK, page)
}

// CreateComment stores a comment by the session user.
func (p *PostController) CreateComment(ctx *gin.Context) {
	text, ok := ctx.GetPostForm("text")
	if !ok {
		badRequest(ctx, "Comment text is required.")
		return
	}
	postID, ok := p.loadPost(ctx)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUser(ctx)

	comment := models.Comment{PostID: postID, UserID: userID, Text: text}
	if err := p.db.WithContext(ctx.Request.Context()).Create(&comment).Error; err != nil {
		serverError(ctx, "failed to create comment", err)
		return
	}
	ctx.Redirect(http.StatusFound, "/")
}

// loadPost resolves the :id parameter to an existing post, rendering 404 otherwise.
func (p *PostController) loadPost(ctx *gin.Context) (uint, bool) {
	postID, ok := parseID(ctx, "id")
	if !ok {
		NotFound(ctx)
		return 0, false
	}
	var count int64
	if err := p.db.WithContext(ctx.Request.Context()).
		Model(&models.Post{}).
		Where("id = ?", postID).
		Count(&count).Error; err != nil {
		serverError(ctx, "failed to load post", err)
		return 0, false
	}
	if count == 0 {
		NotFound(ctx)
		return 0, false
	}
	return postID, true
}
