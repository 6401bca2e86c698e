package article

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/blog/internal/applog"
	"github.com/SergeyParamoshkin/blog/internal/errresponse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ctxKey int8

const (
	slugCtxKey ctxKey = iota
	authorCtxKey
)

var (
	errBlankSlug   = errors.New("slug is required")
	errBlankAuthor = errors.New("author id is required")
)

// ArticleCtx middleware validates the {slug} URL parameter and puts it on
// the request context. Blank slugs are rejected here, before the store.
func ArticleCtx(next http.Handler) http.Handler {
	return paramCtx("slug", slugCtxKey, errBlankSlug, next)
}

// AuthorCtx does the same for the {authorID} URL parameter.
func AuthorCtx(next http.Handler) http.Handler {
	return paramCtx("authorID", authorCtxKey, errBlankAuthor, next)
}

func paramCtx(param string, key ctxKey, blank error, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value := chi.URLParam(r, param)
		if strings.TrimSpace(value) == "" {
			if err := render.Render(w, r, errresponse.ErrInvalidRequest(blank)); err != nil {
				applog.FromContext(r.Context()).Errorw("render failed", "error", err)
			}

			return
		}

		ctx := context.WithValue(r.Context(), key, value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SlugFromContext returns the slug stored by ArticleCtx.
func SlugFromContext(ctx context.Context) string {
	slug, _ := ctx.Value(slugCtxKey).(string)

	return slug
}

func AuthorFromContext(ctx context.Context) string {
	author, _ := ctx.Value(authorCtxKey).(string)

	return author
}

// cacheable marks public read responses as briefly cacheable.
func cacheable(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=30, stale-while-revalidate=60")
		next.ServeHTTP(w, r)
	})
}
