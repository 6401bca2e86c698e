package model

// Article data model. Known fields are read through the typed accessors,
// everything else the client sent on creation is carried as-is.
type Article struct {
	Fields
}

func NewArticle() *Article {
	return &Article{}
}

func (a *Article) Slug() string { return a.Text("slug") }

func (a *Article) Title() string { return a.Text("title") }

func (a *Article) CreatedAt() string { return a.Text("created_at") }

func (a *Article) UpdatedAt() string { return a.Text("updated_at") }

func (a *Article) Published() bool {
	v, _ := a.Get("is_published")

	return v.Truth()
}

// Clone returns a deep copy safe to hand out of the store.
func (a *Article) Clone() *Article {
	return &Article{Fields: a.Fields.clone()}
}
