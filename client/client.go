package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/SergeyParamoshkin/blog/internal/user"
)

// Client talks to the blog service at Addr.
type Client struct {
	http.Client
	Addr string
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("blog: unexpected status %d: %s", e.Code, e.Body)
}

func (c *Client) do(ctx context.Context, method, path, userID string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Addr+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(user.HeaderUserID, userID)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: string(data)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}

	return json.Unmarshal(data, out)
}

func articlePath(slug string) string {
	return "/articles/" + url.PathEscape(slug)
}

// Health returns the status reported by the service.
func (c *Client) Health(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	err := c.do(ctx, http.MethodGet, "/articles/health", "", nil, &out)

	return out.Status, err
}

func (c *Client) ListArticles(ctx context.Context) ([]*model.Article, error) {
	var out []*model.Article
	err := c.do(ctx, http.MethodGet, "/articles", "", nil, &out)

	return out, err
}

func (c *Client) Search(ctx context.Context, query string) ([]*model.Article, error) {
	var out []*model.Article
	err := c.do(ctx, http.MethodGet, "/articles/search?q="+url.QueryEscape(query), "", nil, &out)

	return out, err
}

// CreateArticle posts payload, any JSON object, as a new article.
func (c *Client) CreateArticle(ctx context.Context, payload interface{}) (*model.Article, error) {
	out := model.NewArticle()
	if err := c.do(ctx, http.MethodPost, "/articles", "", payload, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) GetArticle(ctx context.Context, slug string) (*model.Article, error) {
	out := model.NewArticle()
	if err := c.do(ctx, http.MethodGet, articlePath(slug), "", nil, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) UpdateArticle(ctx context.Context, slug string, payload interface{}) (*model.Article, error) {
	out := model.NewArticle()
	if err := c.do(ctx, http.MethodPut, articlePath(slug), "", payload, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) DeleteArticle(ctx context.Context, slug string) error {
	return c.do(ctx, http.MethodDelete, articlePath(slug), "", nil, nil)
}

func (c *Client) ListComments(ctx context.Context, slug string) ([]model.Comment, error) {
	var out []model.Comment
	err := c.do(ctx, http.MethodGet, articlePath(slug)+"/comments", "", nil, &out)

	return out, err
}

func (c *Client) AddComment(ctx context.Context, slug, text, author string) (model.Comment, error) {
	in := map[string]string{"text": text}
	if author != "" {
		in["author"] = author
	}
	var out model.Comment
	err := c.do(ctx, http.MethodPost, articlePath(slug)+"/comments", "", in, &out)

	return out, err
}

// Likes reads the like state; userID may be empty.
func (c *Client) Likes(ctx context.Context, slug, userID string) (model.LikeState, error) {
	var out model.LikeState
	err := c.do(ctx, http.MethodGet, articlePath(slug)+"/likes", userID, nil, &out)

	return out, err
}

func (c *Client) ToggleLike(ctx context.Context, slug, userID string) (model.LikeState, error) {
	var out model.LikeState
	err := c.do(ctx, http.MethodPost, articlePath(slug)+"/likes", userID, nil, &out)

	return out, err
}
