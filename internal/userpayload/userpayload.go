package userpayload

import (
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/blog/internal/model"
)

// UserPayload is the optional body of like and bookmark toggles. Only
// user_id is read; it may be any JSON scalar.
type UserPayload struct {
	model.Fields
}

// Bind on UserPayload will run after the unmarshalling is complete, its
// a good time to focus some post-processing after a decoding.
func (u *UserPayload) Bind(r *http.Request) error {
	return nil
}

func (u *UserPayload) UserID() string {
	return strings.TrimSpace(u.Text("user_id"))
}
