package articleresponse

import (
	"net/http"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/go-chi/render"
)

// ArticleResponse is the response payload for the Article data model. It
// is written out exactly as stored, field order included.
type ArticleResponse struct {
	*model.Article
}

func NewArticleResponse(article *model.Article) *ArticleResponse {
	return &ArticleResponse{Article: article}
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewArticleListResponse(articles []*model.Article) []render.Renderer {
	list := []render.Renderer{}
	for _, article := range articles {
		list = append(list, NewArticleResponse(article))
	}

	return list
}

type CommentResponse struct {
	*model.Comment
}

func NewCommentResponse(comment model.Comment) *CommentResponse {
	return &CommentResponse{Comment: &comment}
}

func (rd *CommentResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewCommentListResponse(comments []model.Comment) []render.Renderer {
	list := []render.Renderer{}
	for _, comment := range comments {
		list = append(list, NewCommentResponse(comment))
	}

	return list
}

type LikesResponse struct {
	model.LikeState
}

func (rd *LikesResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type BookmarkResponse struct {
	model.BookmarkState
}

func (rd *BookmarkResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type SubscriptionResponse struct {
	model.SubscriptionState
}

func (rd *SubscriptionResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// SubscriptionsResponse lists the author ids a user follows.
type SubscriptionsResponse struct {
	Authors []string `json:"authors"`
}

func (rd *SubscriptionsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if rd.Authors == nil {
		rd.Authors = []string{}
	}

	return nil
}

// StatusResponse answers health checks.
type StatusResponse struct {
	Status string `json:"status"`
}

func NewStatusOK() *StatusResponse {
	return &StatusResponse{Status: "ok"}
}

func (rd *StatusResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
