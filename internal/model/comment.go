package model

// Comment on an article. Comments are immutable once added.
type Comment struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

// LikeState is the like counter of an article as seen by one user.
type LikeState struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

type BookmarkState struct {
	Bookmarked bool `json:"bookmarked"`
}

// SubscriptionState is one author's subscriber count as seen by one user.
type SubscriptionState struct {
	Subscribed bool `json:"subscribed"`
	Count      int  `json:"count"`
}
