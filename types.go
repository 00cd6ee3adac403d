package tumblr

import (
	"context"
	"encoding/json"
)

type (
	// Blog is a tumblelog. Objects nested in a reblog trail may only carry
	// a name.
	Blog struct {
		Name          string    `json:"name"`
		Title         string    `json:"title"`
		Description   string    `json:"description"`
		URL           string    `json:"url"`
		PostCount     int       `json:"posts"`
		LikeCount     int       `json:"likes"`
		FollowerCount int       `json:"followers"`
		Updated       NullInt64 `json:"updated"`
		Ask           bool      `json:"ask"`
		AskAnon       bool      `json:"ask_anon"`
		Followed      bool      `json:"followed"`
		Avatars       []Avatar  `json:"avatar,omitempty"`

		client *Client
	}

	Avatar struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		URL    string `json:"url"`
	}

	// User is the authenticated user.
	User struct {
		Name              string    `json:"name"`
		Following         int       `json:"following"`
		Likes             int       `json:"likes"`
		DefaultPostFormat string    `json:"default_post_format"`
		Updated           NullInt64 `json:"updated"`
		Blogs             []*Blog   `json:"blogs"`

		client *Client
	}

	// Follower is an entry of a blog's follower list.
	Follower struct {
		Name      string    `json:"name"`
		Following bool      `json:"following"`
		URL       string    `json:"url"`
		Updated   NullInt64 `json:"updated"`

		client *Client
	}

	Note struct {
		Timestamp            NullInt64 `json:"timestamp"`
		BlogName             string    `json:"blog_name"`
		BlogURL              string    `json:"blog_url"`
		ReblogParentBlogName string    `json:"reblog_parent_blog_name,omitempty"`
		// Type is "like", "reblog", "reply" or "posted".
		Type      string    `json:"type"`
		PostID    NullInt64 `json:"post_id"`
		ReplyText string    `json:"reply_text,omitempty"`
		AddedText string    `json:"added_text,omitempty"`
		Followed  *bool     `json:"followed,omitempty"`
	}

	// Notes is the notes listing of a single post.
	Notes struct {
		TotalNotes   NullInt64 `json:"total_notes"`
		TotalLikes   NullInt64 `json:"total_likes"`
		TotalReblogs NullInt64 `json:"total_reblogs"`
		Notes        []Note    `json:"notes"`
		RollupNotes  []Note    `json:"rollup_notes"`
		Links        *Links    `json:"_links,omitempty"`
	}

	Notification struct {
		Type                 string    `json:"type"`
		Timestamp            NullInt64 `json:"timestamp"`
		Before               NullInt64 `json:"before"`
		TargetPostID         NullInt64 `json:"target_post_id"`
		FromTumblelogName    string    `json:"from_tumblelog_name"`
		TargetTumblelogName  string    `json:"target_tumblelog_name"`
		PostID               NullInt64 `json:"post_id"`
		FromTumblelogIsAdult *bool     `json:"from_tumblelog_is_adult"`
		Followed             *bool     `json:"followed"`
		PostTags             []string  `json:"post_tags"`
		TargetPostSummary    string    `json:"target_post_summary"`
		AddedText            string    `json:"added_text"`
		ReplyText            string    `json:"reply_text"`
	}

	// Notifications is a blog's activity feed.
	Notifications struct {
		Notifications []Notification `json:"notifications"`
		Links         *Links         `json:"_links,omitempty"`
	}

	// Links holds the pagination links the API attaches to some listings.
	Links struct {
		Next *Link `json:"next,omitempty"`
		Prev *Link `json:"prev,omitempty"`
	}

	Link struct {
		Type        string            `json:"type"`
		Href        string            `json:"href"`
		Method      string            `json:"method"`
		QueryParams map[string]string `json:"query_params"`
	}

	// UserLimits maps a limit name (posts, photos, videos, ...) to its reading.
	UserLimits struct {
		User map[string]Limit `json:"user"`
	}

	Limit struct {
		Description string    `json:"description"`
		Limit       int       `json:"limit"`
		Remaining   int       `json:"remaining"`
		ResetAt     NullInt64 `json:"reset_at"`
	}
)

// Trail is one entry of a post's reblog history.
type Trail struct {
	Blog       *Blog
	Post       Post
	ContentRaw string
	Content    string
	IsRootItem *bool
}

type trailWire struct {
	Blog       *Blog           `json:"blog,omitempty"`
	Post       json.RawMessage `json:"post,omitempty"`
	ContentRaw string          `json:"content_raw"`
	Content    string          `json:"content"`
	IsRootItem *bool           `json:"is_root_item,omitempty"`
}

func (t *Trail) UnmarshalJSON(data []byte) error {
	var w trailWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = Trail{
		Blog:       w.Blog,
		ContentRaw: w.ContentRaw,
		Content:    w.Content,
		IsRootItem: w.IsRootItem,
	}
	if len(w.Post) > 0 && string(w.Post) != "null" {
		p, err := DecodePost(w.Post)
		if err != nil {
			return err
		}
		t.Post = p
	}
	return nil
}

func (t Trail) MarshalJSON() ([]byte, error) {
	w := trailWire{
		Blog:       t.Blog,
		ContentRaw: t.ContentRaw,
		Content:    t.Content,
		IsRootItem: t.IsRootItem,
	}
	if t.Post != nil {
		raw, err := json.Marshal(t.Post)
		if err != nil {
			return nil, err
		}
		w.Post = raw
	}
	return json.Marshal(w)
}

func (t *Trail) setClient(c *Client) {
	if t.Blog != nil {
		t.Blog.setClient(c)
	}
	if t.Post != nil {
		t.Post.Base().setClient(c)
	}
}

func (b *Blog) setClient(c *Client) { b.client = c }

// Client returns the client this blog was decoded by, or nil.
func (b *Blog) Client() *Client { return b.client }

func (u *User) setClient(c *Client) {
	u.client = c
	for _, b := range u.Blogs {
		if b != nil {
			b.setClient(c)
		}
	}
}

// Client returns the client this user was decoded by, or nil.
func (u *User) Client() *Client { return u.client }

func (f *Follower) setClient(c *Client) { f.client = c }

// Blog fetches the follower's blog info.
func (f *Follower) Blog(ctx context.Context) (*Blog, error) {
	if f.client == nil {
		return nil, ErrNoClient
	}
	return f.client.BlogInfo(ctx, f.Name, nil)
}
