package model

import "errors"

var (
	ErrNotFound     = errors.New("article not found")
	ErrTextRequired = errors.New("text is required")
	ErrUserRequired = errors.New("user_id required")

	ErrInvalidJSON = errors.New("malformed JSON")
	ErrNotObject   = errors.New("JSON object expected")
)
