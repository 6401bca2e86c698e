package articlerequest

import (
	"errors"
	"io"
	"net/http"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/go-chi/render"
)

// ArticleRequest is the request payload for creating and updating
// articles. Any field is accepted and kept in the order it was sent.
type ArticleRequest struct {
	model.Fields
}

func (a *ArticleRequest) Bind(r *http.Request) error {
	return nil
}

// CommentRequest carries text and an optional author. Blank text is
// rejected by the store so it can answer for the comment table.
type CommentRequest struct {
	model.Fields
}

func (c *CommentRequest) Bind(r *http.Request) error {
	return nil
}

// Bind decodes a JSON body into v and runs its post-processing.
func Bind(r *http.Request, v render.Binder) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return decodeError(err)
	}

	return v.Bind(r)
}

// BindOptional is Bind for requests whose body may be empty.
func BindOptional(r *http.Request, v render.Binder) error {
	if r.Body != nil && r.Body != http.NoBody {
		if err := render.DecodeJSON(r.Body, v); err != nil && !errors.Is(err, io.EOF) {
			return decodeError(err)
		}
	}

	return v.Bind(r)
}

var errEmptyBody = errors.New("request body is empty")

func decodeError(err error) error {
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}

	return err
}
