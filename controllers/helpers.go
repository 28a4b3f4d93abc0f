package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cppla/minisocial/middleware"
	"github.com/cppla/minisocial/utils"
	"github.com/cppla/minisocial/views"
)

// parseID reads a numeric path parameter. Non-numeric values do not match the route.
func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func render(ctx *gin.Context, title, kind string) {
	views.Render(ctx, http.StatusOK, middleware.PageFor(ctx, title, kind))
}

func fail(ctx *gin.Context, status int, message string) {
	views.RenderError(ctx, status, middleware.PageFor(ctx, "", ""), message)
}

func badRequest(ctx *gin.Context, message string) {
	fail(ctx, http.StatusBadRequest, message)
}

// NotFound renders the uniform 404 page; the router also uses it for unmatched paths.
func NotFound(ctx *gin.Context) {
	fail(ctx, http.StatusNotFound, "Page not found.")
}

// InternalError renders the uniform 500 page. The router uses it after a recovered panic.
func InternalError(ctx *gin.Context) {
	fail(ctx, http.StatusInternalServerError, "Something went wrong.")
}

// RequireNumericID answers 404 before any other handler when the :id parameter is not a
// number, so malformed paths look unmatched whether or not the client is logged in.
func RequireNumericID(ctx *gin.Context) {
	if _, ok := parseID(ctx, "id"); !ok {
		NotFound(ctx)
		return
	}
	ctx.Next()
}

// serverError logs err with the failing operation and hides details from the user.
func serverError(ctx *gin.Context, op string, err error) {
	utils.Sugar.Errorw(op, "path", ctx.Request.URL.Path, "err", err)
	_ = ctx.Error(err)
	InternalError(ctx)
}
