package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/minisocial/utils"
	"github.com/cppla/minisocial/views"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
)

// LoadSession reads the session cookie, if any, and stores the identity in the Gin context.
// Invalid, expired or revoked cookies leave the request anonymous.
func LoadSession(sessions *utils.SessionManager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(sessions.CookieName())
		if err != nil || token == "" {
			ctx.Next()
			return
		}
		claims, err := sessions.Parse(ctx.Request.Context(), token)
		if err != nil {
			utils.Sugar.Debugw("ignoring session cookie", "err", err)
			ctx.Next()
			return
		}
		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Next()
	}
}

// AuthRequired sends anonymous requests to the login page. Every mutating route uses it.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := CurrentUser(ctx); !ok {
			ctx.Redirect(http.StatusFound, "/login")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// CurrentUser returns the session user id and whether the request is authenticated.
func CurrentUser(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// PageFor returns a page with the navigation state of the current request filled in.
func PageFor(ctx *gin.Context, title, kind string) views.Page {
	page := views.Page{Title: title, Kind: kind}
	if _, ok := CurrentUser(ctx); ok {
		page.LoggedIn = true
		page.Username = ctx.GetString(ContextUsernameKey)
	}
	return page
}
