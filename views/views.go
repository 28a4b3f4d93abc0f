// Package views holds the single shared page layout and its content fragments.
package views

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/cppla/minisocial/models"
	"github.com/cppla/minisocial/utils"
)

//go:embed templates/*.html
var files embed.FS

// Layout is the template name every page is rendered through.
const Layout = "layout"

// Page kinds select the content fragment inside the layout.
const (
	KindFeed     = "feed"
	KindRegister = "register"
	KindLogin    = "login"
	KindPost     = "post"
	KindComment  = "comment"
	KindError    = "error"
)

// Page is the data passed to the layout.
type Page struct {
	Title    string
	Kind     string
	LoggedIn bool
	Username string
	Posts    []models.FeedPost
	PostID   uint
	Message  string
}

// Load parses the embedded templates.
func Load() (*template.Template, error) {
	return template.New("views").Funcs(template.FuncMap{
		// ugc renders user-generated content with unsafe markup removed
		"ugc": func(s string) template.HTML {
			return template.HTML(utils.Sanitize(s))
		},
	}).ParseFS(files, "templates/*.html")
}

// Render writes page through the shared layout with the given status.
func Render(ctx *gin.Context, status int, page Page) {
	ctx.HTML(status, Layout, page)
}

// RenderError writes a uniform error page and stops the handler chain.
func RenderError(ctx *gin.Context, status int, page Page, message string) {
	page.Title = "Error"
	page.Kind = KindError
	page.Message = message
	ctx.Abort()
	ctx.HTML(status, Layout, page)
}
