package article

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SergeyParamoshkin/blog/internal/user"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Store, http.Handler) {
	t.Helper()
	store := NewStore(
		WithClock(tick(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))),
		WithIDGenerator(seq()),
	)
	api := NewAPI(store, nil)
	r := chi.NewRouter()
	r.Mount("/articles", api.Routes())
	r.Mount("/authors", api.AuthorRoutes())
	r.Mount("/users", api.UserRoutes())

	return store, r
}

type call struct {
	method string
	path   string
	body   string
	header map[string]string
}

func do(t *testing.T, h http.Handler, c call) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if c.body != "" {
		body = strings.NewReader(c.body)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())

	return m
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)

	w := do(t, h, call{method: http.MethodGet, path: "/articles/health"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreateTwiceSameTitle(t *testing.T) {
	_, h := newTestServer(t)

	w := do(t, h, call{method: http.MethodPost, path: "/articles", body: `{"title":"Hello World"}`})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "hello-world", decode(t, w)["slug"])

	w = do(t, h, call{method: http.MethodPost, path: "/articles", body: `{"title":"Hello World"}`})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "hello-world-2", decode(t, w)["slug"])

	w = do(t, h, call{method: http.MethodGet, path: "/articles/hello-world-2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello World", decode(t, w)["title"])
	assert.Equal(t, "public, max-age=30, stale-while-revalidate=60", w.Header().Get("Cache-Control"))
}

func TestCreateRejectsBadBodies(t *testing.T) {
	_, h := newTestServer(t)

	for _, body := range []string{"", "[1]", `{"title":`, `"x"`} {
		w := do(t, h, call{method: http.MethodPost, path: "/articles", body: body})
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.NotEmpty(t, decode(t, w)["error"], body)
	}
}

func TestArticleLifecycle(t *testing.T) {
	store, h := newTestServer(t)

	w := do(t, h, call{method: http.MethodPost, path: "/articles", body: `{"title":"Post","mood":"happy"}`})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, call{method: http.MethodPut, path: "/articles/post", body: `{"subtitle":"x","is_published":"false"}`})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, "x", got["subtitle"])
	assert.Equal(t, false, got["is_published"])
	assert.Equal(t, "happy", got["mood"])
	assert.NotEmpty(t, got["updated_at"])

	w = do(t, h, call{method: http.MethodDelete, path: "/articles/post"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	for _, c := range []call{
		{method: http.MethodGet, path: "/articles/post"},
		{method: http.MethodPut, path: "/articles/post", body: `{}`},
		{method: http.MethodDelete, path: "/articles/post"},
		{method: http.MethodGet, path: "/articles/post/comments"},
		{method: http.MethodPost, path: "/articles/post/comments", body: `{"text":"hi"}`},
		{method: http.MethodGet, path: "/articles/post/likes"},
		{method: http.MethodPost, path: "/articles/post/likes", header: map[string]string{user.HeaderUserID: "u1"}},
	} {
		assert.Equal(t, http.StatusNotFound, do(t, h, c).Code, c.method+" "+c.path)
	}

	assert.Empty(t, store.List())
}

func TestBlankSlug(t *testing.T) {
	_, h := newTestServer(t)

	w := do(t, h, call{method: http.MethodGet, path: "/articles/%20"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "slug is required", decode(t, w)["error"])
}

func TestListSortedNewestFirst(t *testing.T) {
	_, h := newTestServer(t)
	for _, title := range []string{"one", "two", "three"} {
		require.Equal(t, http.StatusCreated, do(t, h, call{method: http.MethodPost, path: "/articles", body: `{"title":"` + title + `"}`}).Code)
	}

	w := do(t, h, call{method: http.MethodGet, path: "/articles"})
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Equal(t, "three", list[0]["slug"])
	assert.Equal(t, "two", list[1]["slug"])
	assert.Equal(t, "one", list[2]["slug"])
	assert.EqualValues(t, 0, list[0]["comments_count"])
}

func TestEmptyListIsArray(t *testing.T) {
	_, h := newTestServer(t)

	w := do(t, h, call{method: http.MethodGet, path: "/articles"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestComments(t *testing.T) {
	_, h := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, h, call{method: http.MethodPost, path: "/articles", body: `{"title":"Post"}`}).Code)

	w := do(t, h, call{method: http.MethodPost, path: "/articles/post/comments", body: `{"text":"  "}`})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "text is required", decode(t, w)["error"])

	w = do(t, h, call{method: http.MethodPost, path: "/articles/post/comments", body: `{"text":"first"}`})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Anon", decode(t, w)["author"])

	w = do(t, h, call{method: http.MethodPost, path: "/articles/post/comments", body: `{"text":"second","author":"Bea"}`})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, call{method: http.MethodGet, path: "/articles/post/comments"})
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0]["text"])
	assert.Equal(t, "Bea", list[0]["author"])
	assert.Equal(t, "first", list[1]["text"])
	assert.Empty(t, w.Header().Get("Cache-Control"))
}

func TestLikes(t *testing.T) {
	_, h := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, h, call{method: http.MethodPost, path: "/articles", body: `{"title":"Post"}`}).Code)

	w := do(t, h, call{method: http.MethodPost, path: "/articles/post/likes"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "user_id required", decode(t, w)["error"])

	w = do(t, h, call{method: http.MethodPost, path: "/articles/post/likes", header: map[string]string{user.HeaderUserID: "u1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"likes":1,"liked":true}`, w.Body.String())

	w = do(t, h, call{method: http.MethodPost, path: "/articles/post/likes", body: `{"user_id":"u2"}`})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"likes":2,"liked":true}`, w.Body.String())

	w = do(t, h, call{method: http.MethodPost, path: "/articles/post/likes", body: `{"user_id":"u2"}`, header: map[string]string{user.HeaderUserID: "u1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"likes":1,"liked":false}`, w.Body.String())

	w = do(t, h, call{method: http.MethodGet, path: "/articles/post/likes", header: map[string]string{user.HeaderUserID: "u2"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"likes":1,"liked":true}`, w.Body.String())

	w = do(t, h, call{method: http.MethodGet, path: "/articles/post/likes"})
	assert.JSONEq(t, `{"likes":1,"liked":false}`, w.Body.String())

	w = do(t, h, call{method: http.MethodGet, path: "/articles/post"})
	assert.EqualValues(t, 1, decode(t, w)["likes"])

	w = do(t, h, call{method: http.MethodPost, path: "/articles/post/likes", body: `{"user_id":`})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookmarks(t *testing.T) {
	_, h := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, h, call{method: http.MethodPost, path: "/articles", body: `{"title":"Post"}`}).Code)
	u1 := map[string]string{user.HeaderUserID: "u1"}

	w := do(t, h, call{method: http.MethodGet, path: "/articles/post/bookmark", header: u1})
	assert.JSONEq(t, `{"bookmarked":false}`, w.Body.String())

	w = do(t, h, call{method: http.MethodPost, path: "/articles/post/bookmark", header: u1})
	assert.JSONEq(t, `{"bookmarked":true}`, w.Body.String())

	w = do(t, h, call{method: http.MethodGet, path: "/articles/post/bookmark", header: u1})
	assert.JSONEq(t, `{"bookmarked":true}`, w.Body.String())

	w = do(t, h, call{method: http.MethodPost, path: "/articles/post/bookmark"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateNullFieldsGetDefaults(t *testing.T) {
	_, h := newTestServer(t)

	w := do(t, h, call{method: http.MethodPost, path: "/articles", body: `{"title":"Post","is_published":null,"subtitle":null}`})
	require.Equal(t, http.StatusCreated, w.Code)

	got := decode(t, w)
	assert.Equal(t, true, got["is_published"])
	assert.Equal(t, "", got["subtitle"])
	assert.EqualValues(t, 1, got["reading_time_minutes"])
}

func TestMyBookmarks(t *testing.T) {
	_, h := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, h, call{method: http.MethodPost, path: "/articles", body: `{"title":"Post"}`}).Code)
	u1 := map[string]string{user.HeaderUserID: "u1"}

	w := do(t, h, call{method: http.MethodGet, path: "/users/me/bookmarks"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, call{method: http.MethodGet, path: "/users/me/bookmarks", header: u1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	require.Equal(t, http.StatusOK, do(t, h, call{method: http.MethodPost, path: "/articles/post/bookmark", header: u1}).Code)

	w = do(t, h, call{method: http.MethodGet, path: "/users/me/bookmarks", header: u1})
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "post", list[0]["slug"])
	assert.EqualValues(t, 0, list[0]["comments_count"])
	assert.Empty(t, w.Header().Get("Cache-Control"))
}

func TestSubscriptionEndpoints(t *testing.T) {
	_, h := newTestServer(t)
	u1 := map[string]string{user.HeaderUserID: "u1"}

	w := do(t, h, call{method: http.MethodGet, path: "/authors/ann/subscription", header: u1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subscribed":false,"count":0}`, w.Body.String())

	w = do(t, h, call{method: http.MethodPost, path: "/authors/ann/subscription", header: u1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subscribed":true,"count":1}`, w.Body.String())

	w = do(t, h, call{method: http.MethodPost, path: "/authors/ann/subscription", body: `{"user_id":"u2"}`})
	assert.JSONEq(t, `{"subscribed":true,"count":2}`, w.Body.String())

	w = do(t, h, call{method: http.MethodGet, path: "/authors/ann/subscription"})
	assert.JSONEq(t, `{"subscribed":false,"count":2}`, w.Body.String())

	w = do(t, h, call{method: http.MethodGet, path: "/users/me/subscriptions", header: u1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authors":["ann"]}`, w.Body.String())

	w = do(t, h, call{method: http.MethodGet, path: "/users/me/subscriptions", header: map[string]string{user.HeaderUserID: "u9"}})
	assert.JSONEq(t, `{"authors":[]}`, w.Body.String())

	for _, c := range []call{
		{method: http.MethodPost, path: "/authors/ann/subscription"},
		{method: http.MethodGet, path: "/users/me/subscriptions"},
	} {
		assert.Equal(t, http.StatusUnauthorized, do(t, h, c).Code, c.method+" "+c.path)
	}

	w = do(t, h, call{method: http.MethodGet, path: "/authors/%20/subscription"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "author id is required", decode(t, w)["error"])
}

func TestSearchEndpoint(t *testing.T) {
	_, h := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, h, call{method: http.MethodPost, path: "/articles", body: `{"title":"Channels in Go"}`}).Code)
	require.Equal(t, http.StatusCreated, do(t, h, call{method: http.MethodPost, path: "/articles", body: `{"title":"Other"}`}).Code)

	w := do(t, h, call{method: http.MethodGet, path: "/articles/search?q=channels"})
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "channels-in-go", list[0]["slug"])
	assert.EqualValues(t, 0, list[0]["comments_count"])

	w = do(t, h, call{method: http.MethodGet, path: "/articles/search"})
	assert.JSONEq(t, `[]`, w.Body.String())
}
