package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cppla/minisocial/models"
	"github.com/cppla/minisocial/utils"
	"github.com/cppla/minisocial/views"
)

// AuthController handles registration, login and logout.
type AuthController struct {
	db       *gorm.DB
	sessions *utils.SessionManager
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB, sessions *utils.SessionManager) *AuthController {
	return &AuthController{db: db, sessions: sessions}
}

// credentials returns the user and pwd form fields. Empty values are accepted;
// only a field that is missing altogether fails.
func credentials(ctx *gin.Context) (string, string, bool) {
	username, okUser := ctx.GetPostForm("user")
	password, okPwd := ctx.GetPostForm("pwd")
	return username, password, okUser && okPwd
}

// RegisterForm shows the registration form.
func (a *AuthController) RegisterForm(ctx *gin.Context) {
	render(ctx, "Register", views.KindRegister)
}

// Register creates an account with a bcrypt-hashed password. Usernames are unique.
func (a *AuthController) Register(ctx *gin.Context) {
	username, password, ok := credentials(ctx)
	if !ok {
		badRequest(ctx, "Username and password are required.")
		return
	}
	if utf8.RuneCountInString(username) > models.MaxUsernameLength {
		badRequest(ctx, fmt.Sprintf("Username must be at most %d characters.", models.MaxUsernameLength))
		return
	}

	db := a.db.WithContext(ctx.Request.Context())

	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		fail(ctx, http.StatusConflict, "Username already exists.")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		serverError(ctx, "failed to look up username", err)
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			badRequest(ctx, "Password is too long.")
			return
		}
		serverError(ctx, "failed to hash password", err)
		return
	}

	user := models.User{Username: username, PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		// lost a race with a concurrent registration of the same name
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			fail(ctx, http.StatusConflict, "Username already exists.")
			return
		}
		serverError(ctx, "failed to create user", err)
		return
	}

	utils.Sugar.Infow("user registered", "user_id", user.ID)
	ctx.Redirect(http.StatusFound, "/login")
}

// LoginForm shows the login form.
func (a *AuthController) LoginForm(ctx *gin.Context) {
	render(ctx, "Login", views.KindLogin)
}

// Login verifies credentials and starts a session.
func (a *AuthController) Login(ctx *gin.Context) {
	username, password, ok := credentials(ctx)
	if !ok {
		badRequest(ctx, "Username and password are required.")
		return
	}

	var user models.User
	err := a.db.WithContext(ctx.Request.Context()).Where("username = ?", username).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		serverError(ctx, "failed to look up user", err)
		return
	}
	if err != nil || !utils.CheckPassword(user.PasswordHash, password) {
		fail(ctx, http.StatusUnauthorized, "Invalid login!")
		return
	}

	token, err := a.sessions.Issue(user.ID, user.Username)
	if err != nil {
		serverError(ctx, "failed to issue session", err)
		return
	}
	a.sessions.SetCookie(ctx, token)
	ctx.Redirect(http.StatusFound, "/")
}

// Logout revokes the current session token, if any, and clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	if token, err := ctx.Cookie(a.sessions.CookieName()); err == nil && token != "" {
		a.sessions.Revoke(ctx.Request.Context(), token)
	}
	a.sessions.ClearCookie(ctx)
	ctx.Redirect(http.StatusFound, "/")
}
