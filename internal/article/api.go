package article

import (
	"net/http"

	"github.com/SergeyParamoshkin/blog/internal/applog"
	"github.com/SergeyParamoshkin/blog/internal/articlerequest"
	"github.com/SergeyParamoshkin/blog/internal/articleresponse"
	"github.com/SergeyParamoshkin/blog/internal/errresponse"
	"github.com/SergeyParamoshkin/blog/internal/metrics"
	"github.com/SergeyParamoshkin/blog/internal/user"
	"github.com/SergeyParamoshkin/blog/internal/userpayload"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// API serves the articles resource from a Store.
type API struct {
	store   *Store
	metrics *metrics.Instruments
}

func NewAPI(store *Store, m *metrics.Instruments) *API {
	return &API{store: store, metrics: m}
}

// Routes returns the router to mount under /articles.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", a.Health)
	r.With(cacheable).Get("/", a.ListArticles)
	r.Post("/", a.CreateArticle)
	r.With(cacheable).Get("/search", a.SearchArticles)

	r.Route("/{slug}", func(r chi.Router) {
		r.Use(ArticleCtx)
		r.With(cacheable).Get("/", a.GetArticle)
		r.Put("/", a.UpdateArticle)
		r.Delete("/", a.DeleteArticle)

		r.Get("/comments", a.ListComments)
		r.Post("/comments", a.AddComment)

		r.Get("/likes", a.GetLikes)
		r.Post("/likes", a.ToggleLike)

		r.Get("/bookmark", a.GetBookmark)
		r.Post("/bookmark", a.ToggleBookmark)
	})

	return r
}

// AuthorRoutes returns the router to mount under /authors.
func (a *API) AuthorRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/{authorID}", func(r chi.Router) {
		r.Use(AuthorCtx)
		r.Get("/subscription", a.GetSubscription)
		r.Post("/subscription", a.ToggleSubscription)
	})

	return r
}

// UserRoutes returns the router to mount under /users. Only the caller's
// own lists are served, under /users/me.
func (a *API) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/me/bookmarks", a.ListBookmarks)
	r.Get("/me/subscriptions", a.ListSubscriptions)

	return r
}

// respond renders v, falling back to an error payload when rendering fails.
func respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		logger := applog.FromContext(r.Context())
		logger.Errorw("render failed", "error", err)
		if err := render.Render(w, r, errresponse.ErrRender(err)); err != nil {
			logger.Errorw("render failed", "error", err)
		}
	}
}

func respondList(w http.ResponseWriter, r *http.Request, l []render.Renderer) {
	if err := render.RenderList(w, r, l); err != nil {
		logger := applog.FromContext(r.Context())
		logger.Errorw("render failed", "error", err)
		if err := render.Render(w, r, errresponse.ErrRender(err)); err != nil {
			logger.Errorw("render failed", "error", err)
		}
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	applog.FromContext(r.Context()).Debugw("request rejected", "error", err)
	respond(w, r, errresponse.FromError(err))
}

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, r, articleresponse.NewStatusOK())
}

func (a *API) ListArticles(w http.ResponseWriter, r *http.Request) {
	respondList(w, r, articleresponse.NewArticleListResponse(a.store.List()))
}

// SearchArticles matches the q query parameter against title, subtitle
// and content.
func (a *API) SearchArticles(w http.ResponseWriter, r *http.Request) {
	respondList(w, r, articleresponse.NewArticleListResponse(a.store.Search(r.URL.Query().Get("q"))))
}

// CreateArticle persists the posted Article and returns it
// back to the client as an acknowledgement.
func (a *API) CreateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.ArticleRequest{}
	if err := articlerequest.Bind(r, data); err != nil {
		respond(w, r, errresponse.ErrInvalidRequest(err))

		return
	}

	article := a.store.Create(&data.Fields)
	a.metrics.ArticleCreated(r.Context())
	applog.FromContext(r.Context()).Infow("article created", "slug", article.Slug())

	render.Status(r, http.StatusCreated)
	respond(w, r, articleresponse.NewArticleResponse(article))
}

func (a *API) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := a.store.Get(SlugFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)

		return
	}

	respond(w, r, articleresponse.NewArticleResponse(article))
}

// UpdateArticle applies a partial update to an existing Article.
func (a *API) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.ArticleRequest{}
	if err := articlerequest.Bind(r, data); err != nil {
		respond(w, r, errresponse.ErrInvalidRequest(err))

		return
	}

	article, err := a.store.Update(SlugFromContext(r.Context()), &data.Fields)
	if err != nil {
		respondError(w, r, err)

		return
	}

	respond(w, r, articleresponse.NewArticleResponse(article))
}

// DeleteArticle removes an existing Article. Its comments and likes stay.
func (a *API) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	slug := SlugFromContext(r.Context())
	if err := a.store.Delete(slug); err != nil {
		respondError(w, r, err)

		return
	}
	applog.FromContext(r.Context()).Infow("article deleted", "slug", slug)

	render.NoContent(w, r)
}

func (a *API) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := a.store.ListComments(SlugFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)

		return
	}

	respondList(w, r, articleresponse.NewCommentListResponse(comments))
}

func (a *API) AddComment(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.CommentRequest{}
	if err := articlerequest.Bind(r, data); err != nil {
		respond(w, r, errresponse.ErrInvalidRequest(err))

		return
	}

	comment, err := a.store.AddComment(SlugFromContext(r.Context()), &data.Fields)
	if err != nil {
		respondError(w, r, err)

		return
	}
	a.metrics.CommentAdded(r.Context())

	render.Status(r, http.StatusCreated)
	respond(w, r, articleresponse.NewCommentResponse(comment))
}

// GetLikes reports the like count; liked is computed for the X-User-Id
// caller when the header is present.
func (a *API) GetLikes(w http.ResponseWriter, r *http.Request) {
	state, err := a.store.Likes(SlugFromContext(r.Context()), user.ID(r))
	if err != nil {
		respondError(w, r, err)

		return
	}

	respond(w, r, &articleresponse.LikesResponse{LikeState: state})
}

// ToggleLike flips the caller's like. The caller is taken from X-User-Id,
// or from user_id in the optional body.
func (a *API) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.resolveUser(w, r)
	if !ok {
		return
	}

	state, err := a.store.ToggleLike(SlugFromContext(r.Context()), userID)
	if err != nil {
		respondError(w, r, err)

		return
	}
	a.metrics.LikeToggled(r.Context(), state.Liked)

	respond(w, r, &articleresponse.LikesResponse{LikeState: state})
}

func (a *API) GetBookmark(w http.ResponseWriter, r *http.Request) {
	state, err := a.store.Bookmark(SlugFromContext(r.Context()), user.ID(r))
	if err != nil {
		respondError(w, r, err)

		return
	}

	respond(w, r, &articleresponse.BookmarkResponse{BookmarkState: state})
}

func (a *API) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.resolveUser(w, r)
	if !ok {
		return
	}

	state, err := a.store.ToggleBookmark(SlugFromContext(r.Context()), userID)
	if err != nil {
		respondError(w, r, err)

		return
	}

	respond(w, r, &articleresponse.BookmarkResponse{BookmarkState: state})
}

// ListBookmarks lists the articles the X-User-Id caller has bookmarked.
func (a *API) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	articles, err := a.store.Bookmarked(user.ID(r))
	if err != nil {
		respondError(w, r, err)

		return
	}

	respondList(w, r, articleresponse.NewArticleListResponse(articles))
}

func (a *API) GetSubscription(w http.ResponseWriter, r *http.Request) {
	state := a.store.Subscription(AuthorFromContext(r.Context()), user.ID(r))

	respond(w, r, &articleresponse.SubscriptionResponse{SubscriptionState: state})
}

// ToggleSubscription follows or unfollows an author for the caller.
func (a *API) ToggleSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.resolveUser(w, r)
	if !ok {
		return
	}

	state, err := a.store.ToggleSubscription(AuthorFromContext(r.Context()), userID)
	if err != nil {
		respondError(w, r, err)

		return
	}

	respond(w, r, &articleresponse.SubscriptionResponse{SubscriptionState: state})
}

func (a *API) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	authors, err := a.store.Subscriptions(user.ID(r))
	if err != nil {
		respondError(w, r, err)

		return
	}

	respond(w, r, &articleresponse.SubscriptionsResponse{Authors: authors})
}

func (a *API) resolveUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	data := &userpayload.UserPayload{}
	if err := articlerequest.BindOptional(r, data); err != nil {
		respond(w, r, errresponse.ErrInvalidRequest(err))

		return "", false
	}

	return user.Resolve(r, data.UserID()), true
}
