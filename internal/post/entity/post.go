package entity

import "time"

// Author is the public projection of the user who wrote a post.
type Author struct {
	ID    string
	Name  string
	Email string
}

type Tag struct {
	ID   string
	Name string
}

// Post is a blog post together with its author and tags.
type Post struct {
	ID        string
	Title     string
	Content   string
	Published bool
	AuthorID  string
	Author    Author
	Tags      []Tag
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewPost struct {
	ID        string
	Title     string
	Content   string
	Published bool
	AuthorID  string
	CreatedAt time.Time
}

// PatchPost carries the fields of an update. Nil fields are left unchanged.
// When SetTags is true, Tags replaces the whole tag set.
type PatchPost struct {
	Title     *string
	Content   *string
	Published *bool
	Tags      []Tag
	SetTags   bool
	UpdatedAt time.Time
}

// PostFilter narrows a post listing.
type PostFilter struct {
	AuthorID string
	Limit    int
	Offset   int
}
