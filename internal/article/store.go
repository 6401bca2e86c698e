package article

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/google/uuid"
)

const (
	DefaultTitle  = "Untitled"
	DefaultAuthor = "Anon"

	// TimeLayout is fixed width so timestamps sort as plain strings.
	TimeLayout = "2006-01-02T15:04:05.000Z"

	wordsPerMinute = 180
)

var (
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	word     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// Slugify lower-cases title and joins its alphanumeric runs with hyphens.
// A title with no ASCII letters or digits yields "untitled" rather than an
// empty slug, so it shares the collision suffixes of an "Untitled" title.
func Slugify(title string) string {
	s := strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if s == "" {
		return "untitled"
	}

	return s
}

// ReadingTime estimates minutes to read content, never less than one.
func ReadingTime(content string) int {
	words := len(word.FindAllStringIndex(content, -1))

	return int(math.Max(1, math.RoundToEven(float64(words)/wordsPerMinute)))
}

// minutes parses a client supplied reading time. Only positive whole
// numbers count.
func minutes(v model.Value) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(v.Text()))
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// Store keeps articles, comments, likes and bookmarks in memory. All tables
// are keyed by slug independently, so deleting an article leaves its
// comments, likes and bookmarks in place.
type Store struct {
	mu        sync.RWMutex
	articles  map[string]*model.Article
	comments  map[string][]model.Comment
	likes     map[string]map[string]struct{}
	bookmarks map[string]map[string]struct{}

	// subscribers is keyed by author id, not by slug.
	subscribers map[string]map[string]struct{}

	now   func() time.Time
	newID func() string
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		articles:  make(map[string]*model.Article),
		comments:  make(map[string][]model.Comment),
		likes:     make(map[string]map[string]struct{}),
		bookmarks: make(map[string]map[string]struct{}),

		subscribers: make(map[string]map[string]struct{}),

		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(TimeLayout)
}

// Seed inserts the welcome article into an empty store.
func (s *Store) Seed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.articles) > 0 {
		return false
	}

	a := model.NewArticle()
	a.Set("slug", model.String("welcome"))
	a.Set("title", model.String("Welcome"))
	a.Set("subtitle", model.String("A starter article to check the UI"))
	a.Set("content", model.String("# Hello!\n\nThis is a demo article. You can edit or delete it."))
	a.Set("is_published", model.Bool(true))
	a.Set("likes", model.Int(0))
	a.Set("created_at", model.String(s.timestamp()))
	a.Set("reading_time_minutes", model.Int(ReadingTime(a.Text("content"))))
	s.articles["welcome"] = a

	return true
}

// Create stores a new article built from payload and returns it. The slug
// is derived from the title and suffixed with -2, -3, ... on collision.
func (s *Store) Create(payload *model.Fields) *model.Article {
	title := DefaultTitle
	if v, ok := payload.Get("title"); ok {
		if t := strings.TrimSpace(v.Text()); t != "" {
			title = t
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	base := Slugify(title)
	slug := base
	for idx := 2; s.articles[slug] != nil; idx++ {
		slug = fmt.Sprintf("%s-%d", base, idx)
	}

	a := model.NewArticle()
	a.Set("slug", model.String(slug))
	for _, k := range payload.Keys() {
		if k == "slug" {
			continue
		}
		v, _ := payload.Get(k)
		a.Set(k, v)
	}
	a.Set("title", model.String(title))
	a.SetDefault("subtitle", model.String(""))
	a.SetDefault("is_published", model.Bool(true))
	a.SetDefault("created_at", model.String(s.timestamp()))
	a.SetDefault("content", model.String(""))
	a.SetDefault("likes", model.Int(0))
	v, _ := a.Get("reading_time_minutes")
	if n, ok := minutes(v); ok {
		a.Set("reading_time_minutes", model.Int(n))
	} else {
		a.Set("reading_time_minutes", model.Int(ReadingTime(a.Text("content"))))
	}
	s.articles[slug] = a

	return a.Clone()
}

func (s *Store) Get(slug string) (*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[slug]
	if !ok {
		return nil, model.ErrNotFound
	}

	return a.Clone(), nil
}

// List returns every article, newest created_at first, each with a
// comments_count field. Timestamps are compared as strings.
func (s *Store) List() []*model.Article {
	s.mu.RLock()
	list := make([]*model.Article, 0, len(s.articles))
	for slug, a := range s.articles {
		list = append(list, s.withCommentCount(slug, a))
	}
	s.mu.RUnlock()

	sortByCreatedDesc(list)

	return list
}

func sortByCreatedDesc(list []*model.Article) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt() > list[j].CreatedAt()
	})
}

// Update overwrites title, subtitle, content and is_published when present
// in payload and always refreshes updated_at.
func (s *Store) Update(slug string, payload *model.Fields) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[slug]
	if !ok {
		return nil, model.ErrNotFound
	}

	if v, ok := payload.Get("title"); ok {
		if t := strings.TrimSpace(v.Text()); t != "" {
			a.Set("title", model.String(t))
		} else {
			a.SetIfAbsent("title", model.String(DefaultTitle))
		}
	}
	if v, ok := payload.Get("subtitle"); ok {
		a.Set("subtitle", model.String(v.Text()))
	}
	if v, ok := payload.Get("content"); ok {
		a.Set("content", model.String(v.Text()))
	}
	if v, ok := payload.Get("is_published"); ok {
		a.Set("is_published", model.Bool(v.Truth()))
	}
	if v, ok := payload.Get("reading_time_minutes"); ok {
		n, ok := minutes(v)
		if !ok {
			n = ReadingTime(a.Text("content"))
		}
		a.Set("reading_time_minutes", model.Int(n))
	}
	a.Set("updated_at", model.String(s.timestamp()))

	return a.Clone(), nil
}

func (s *Store) Delete(slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[slug]; !ok {
		return model.ErrNotFound
	}
	delete(s.articles, slug)

	return nil
}

// Search matches query case-insensitively against title, subtitle and
// content. Results carry a comments_count field.
func (s *Store) Search(query string) []*model.Article {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []*model.Article{}
	}

	s.mu.RLock()
	list := []*model.Article{}
	for slug, a := range s.articles {
		if !matches(a, q) {
			continue
		}
		list = append(list, s.withCommentCount(slug, a))
	}
	s.mu.RUnlock()

	sortByCreatedDesc(list)

	return list
}

// withCommentCount clones a and adds its comment count. Callers hold the
// read lock.
func (s *Store) withCommentCount(slug string, a *model.Article) *model.Article {
	c := a.Clone()
	c.Set("comments_count", model.Int(len(s.comments[slug])))

	return c
}

func matches(a *model.Article, q string) bool {
	for _, field := range []string{"title", "subtitle", "content"} {
		if strings.Contains(strings.ToLower(a.Text(field)), q) {
			return true
		}
	}

	return false
}

func (s *Store) ListComments(slug string) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.articles[slug]; !ok {
		return nil, model.ErrNotFound
	}
	list := make([]model.Comment, len(s.comments[slug]))
	copy(list, s.comments[slug])

	return list, nil
}

// AddComment prepends a comment so the list stays newest first.
func (s *Store) AddComment(slug string, payload *model.Fields) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[slug]; !ok {
		return model.Comment{}, model.ErrNotFound
	}

	text := strings.TrimSpace(payload.Text("text"))
	if text == "" {
		return model.Comment{}, model.ErrTextRequired
	}
	author := strings.TrimSpace(payload.Text("author"))
	if author == "" {
		author = DefaultAuthor
	}

	c := model.Comment{
		ID:        s.newID(),
		Text:      text,
		Author:    author,
		CreatedAt: s.timestamp(),
	}
	s.comments[slug] = append([]model.Comment{c}, s.comments[slug]...)

	return c, nil
}

// Likes reports the like count and whether userID is among the likers.
func (s *Store) Likes(slug, userID string) (model.LikeState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.articles[slug]; !ok {
		return model.LikeState{}, model.ErrNotFound
	}
	set := s.likes[slug]
	_, liked := set[strings.TrimSpace(userID)]

	return model.LikeState{Likes: len(set), Liked: liked}, nil
}

// ToggleLike flips the like of userID and rewrites the article's likes
// field from the size of the like set.
func (s *Store) ToggleLike(slug, userID string) (model.LikeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[slug]
	if !ok {
		return model.LikeState{}, model.ErrNotFound
	}
	liked, n, err := toggle(s.likes, slug, userID)
	if err != nil {
		return model.LikeState{}, err
	}
	a.Set("likes", model.Int(n))

	return model.LikeState{Likes: n, Liked: liked}, nil
}

func (s *Store) Bookmark(slug, userID string) (model.BookmarkState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.articles[slug]; !ok {
		return model.BookmarkState{}, model.ErrNotFound
	}
	_, marked := s.bookmarks[slug][strings.TrimSpace(userID)]

	return model.BookmarkState{Bookmarked: marked}, nil
}

func (s *Store) ToggleBookmark(slug, userID string) (model.BookmarkState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[slug]; !ok {
		return model.BookmarkState{}, model.ErrNotFound
	}
	marked, _, err := toggle(s.bookmarks, slug, userID)
	if err != nil {
		return model.BookmarkState{}, err
	}

	return model.BookmarkState{Bookmarked: marked}, nil
}

// Bookmarked lists the articles userID has bookmarked, newest first, each
// with a comments_count field. Bookmarks of deleted articles are skipped.
func (s *Store) Bookmarked(userID string) ([]*model.Article, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, model.ErrUserRequired
	}

	s.mu.RLock()
	list := []*model.Article{}
	for slug, set := range s.bookmarks {
		a, ok := s.articles[slug]
		if _, marked := set[userID]; !marked || !ok {
			continue
		}
		list = append(list, s.withCommentCount(slug, a))
	}
	s.mu.RUnlock()

	sortByCreatedDesc(list)

	return list, nil
}

// Subscription reports how many users follow authorID and whether userID
// is one of them. Authors are not checked for existence.
func (s *Store) Subscription(authorID, userID string) model.SubscriptionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.subscribers[authorID]
	_, subscribed := set[strings.TrimSpace(userID)]

	return model.SubscriptionState{Subscribed: subscribed, Count: len(set)}
}

func (s *Store) ToggleSubscription(authorID, userID string) (model.SubscriptionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subscribed, n, err := toggle(s.subscribers, authorID, userID)
	if err != nil {
		return model.SubscriptionState{}, err
	}

	return model.SubscriptionState{Subscribed: subscribed, Count: n}, nil
}

// Subscriptions lists the author ids userID follows in ascending order.
func (s *Store) Subscriptions(userID string) ([]string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, model.ErrUserRequired
	}

	s.mu.RLock()
	authors := []string{}
	for author, set := range s.subscribers {
		if _, ok := set[userID]; ok {
			authors = append(authors, author)
		}
	}
	s.mu.RUnlock()

	sort.Strings(authors)

	return authors, nil
}

// toggle flips userID in table[key] and returns the new membership and
// set size. Callers hold the write lock.
func toggle(table map[string]map[string]struct{}, key, userID string) (bool, int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, 0, model.ErrUserRequired
	}

	set, ok := table[key]
	if !ok {
		set = make(map[string]struct{})
		table[key] = set
	}
	if _, ok := set[userID]; ok {
		delete(set, userID)

		return false, len(set), nil
	}
	set[userID] = struct{}{}

	return true, len(set), nil
}
