package tumblr

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// PostType is the discriminator carried in a post's "type" field.
type PostType string

const (
	TypeText    PostType = "text"
	TypePhoto   PostType = "photo"
	TypeQuote   PostType = "quote"
	TypeLink    PostType = "link"
	TypeChat    PostType = "chat"
	TypeAudio   PostType = "audio"
	TypeVideo   PostType = "video"
	TypeAnswer  PostType = "answer"
	TypeUnknown PostType = "unknown"
)

// Post states accepted by the API. A post without a state is published.
const (
	StatePublished = "published"
	StateQueued    = "queued"
	StateDraft     = "draft"
	StatePrivate   = "private"
)

// dateLayout is the format the API expects for the "date" parameter (GMT).
const dateLayout = "2006/01/02 15:04:05"

// Post is one of the post variants: *TextPost, *PhotoPost, *QuotePost,
// *LinkPost, *ChatPost, *AudioPost, *VideoPost, *AnswerPost or *UnknownPost.
type Post interface {
	// Base returns the attributes every post shares.
	Base() *PostBase
	Type() PostType
	// Detail returns the parameters sent when the post is created or edited.
	Detail() Params
}

// PostBase holds the attributes shared by every post variant. It is
// embedded by value in each variant.
type PostBase struct {
	ID             NullInt64 `json:"id"`
	BlogName       string    `json:"blog_name"`
	Author         string    `json:"author,omitempty"`
	ReblogKey      string    `json:"reblog_key"`
	PostURL        string    `json:"post_url"`
	ShortURL       string    `json:"short_url"`
	ParentPostURL  string    `json:"parent_post_url,omitempty"`
	Timestamp      NullInt64 `json:"timestamp"`
	LikedTimestamp NullInt64 `json:"liked_timestamp"`
	State          string    `json:"state"`
	Format         string    `json:"format"`
	Date           string    `json:"date"`
	Tags           []string  `json:"tags"`
	Bookmarklet    bool      `json:"bookmarklet"`
	Mobile         bool      `json:"mobile"`
	SourceURL      string    `json:"source_url,omitempty"`
	SourceTitle    string    `json:"source_title,omitempty"`
	Liked          bool      `json:"liked"`
	Slug           string    `json:"slug"`

	RebloggedFromID    NullInt64 `json:"reblogged_from_id"`
	RebloggedFromURL   *string   `json:"reblogged_from_url"`
	RebloggedFromName  *string   `json:"reblogged_from_name"`
	RebloggedFromTitle *string   `json:"reblogged_from_title"`
	RebloggedRootID    NullInt64 `json:"reblogged_root_id"`
	RebloggedRootURL   *string   `json:"reblogged_root_url"`
	RebloggedRootName  *string   `json:"reblogged_root_name"`
	RebloggedRootTitle *string   `json:"reblogged_root_title"`

	NoteCount NullInt64 `json:"note_count"`
	// Notes is only filled when the request asked for notes_info.
	Notes []Note  `json:"notes,omitempty"`
	Trail []Trail `json:"trail,omitempty"`

	client *Client
}

// Base implements Post.
func (b *PostBase) Base() *PostBase { return b }

// Client returns the client this post was decoded by, or nil.
func (b *PostBase) Client() *Client { return b.client }

func (b *PostBase) setClient(c *Client) {
	b.client = c
	for i := range b.Trail {
		b.Trail[i].setClient(c)
	}
}

// normalize fills in defaults the API leaves out.
func (b *PostBase) normalize() {
	if b.State == "" {
		b.State = StatePublished
	}
}

// AddTag appends a tag. Duplicates are kept.
func (b *PostBase) AddTag(tag string) {
	b.Tags = append(b.Tags, tag)
}

// RemoveTag removes the first occurrence of tag.
func (b *PostBase) RemoveTag(tag string) {
	if i := lo.IndexOf(b.Tags, tag); i >= 0 {
		b.Tags = append(b.Tags[:i], b.Tags[i+1:]...)
	}
}

// SetDateTime sets the publish date from t, converted to GMT.
func (b *PostBase) SetDateTime(t time.Time) {
	b.Date = t.UTC().Format(dateLayout)
}

func (b *PostBase) String() string {
	return fmt.Sprintf("[post (%s:%s)]", b.BlogName, b.ID)
}

// detail returns the base parameters shared by every variant. Unset
// optional values are kept as nil entries.
func (b *PostBase) detail(t PostType) Params {
	return Params{
		"type":   string(t),
		"state":  optional(b.State),
		"tags":   strings.Join(b.Tags, ","),
		"format": optional(b.Format),
		"slug":   optional(b.Slug),
		"date":   optional(b.Date),
	}
}

// Like likes this post as the authenticated user.
func (b *PostBase) Like(ctx context.Context) error {
	if b.client == nil {
		return ErrNoClient
	}
	return b.client.Like(ctx, b.ID.Int64, b.ReblogKey)
}

// Unlike removes the authenticated user's like from this post.
func (b *PostBase) Unlike(ctx context.Context) error {
	if b.client == nil {
		return ErrNoClient
	}
	return b.client.Unlike(ctx, b.ID.Int64, b.ReblogKey)
}

// Delete deletes this post.
func (b *PostBase) Delete(ctx context.Context) error {
	if b.client == nil {
		return ErrNoClient
	}
	return b.client.DeletePost(ctx, b.BlogName, b.ID.Int64)
}

// Reblog reblogs this post onto blogName and returns the new post.
func (b *PostBase) Reblog(ctx context.Context, blogName string, options Params) (Post, error) {
	if b.client == nil {
		return nil, ErrNoClient
	}
	return b.client.ReblogPost(ctx, blogName, b.ID.Int64, b.ReblogKey, options)
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// marshalTyped marshals v and injects the "type" discriminator as the first key.
func marshalTyped(t PostType, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	inject := `{"type":"` + string(t) + `"`
	if len(b) <= 2 {
		return []byte(inject + "}"), nil
	}
	return append([]byte(inject+","), b[1:]...), nil
}
