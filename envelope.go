package tumblr

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync"

	"github.com/samber/lo"
)

// Meta is the status block the API sends with every response.
type Meta struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}

// Envelope is a successful response body before it is projected into the
// shape a particular endpoint returns. Projections may be called any number
// of times; each call decodes the response again.
type Envelope struct {
	Meta     Meta            `json:"meta"`
	Response json.RawMessage `json:"response"`

	client *Client

	mu          sync.Mutex
	diagnostics []Diagnostic
}

var (
	errEmptyResponse = errors.New("response is empty")
	errNullElement   = errors.New("array holds a null element")
)

func parseEnvelope(body []byte) (*Envelope, error) {
	env := &Envelope{}
	if err := json.Unmarshal(body, env); err != nil {
		return nil, err
	}
	raw := bytes.TrimSpace(env.Response)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errEmptyResponse
	}
	return env, nil
}

// Client returns the client that received this envelope.
func (e *Envelope) Client() *Client { return e.client }

// Diagnostics returns the non-fatal problems recorded by projections so far,
// such as posts of an unknown type.
func (e *Envelope) Diagnostics() []Diagnostic {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Diagnostic(nil), e.diagnostics...)
}

func (e *Envelope) onUnknown(d Diagnostic) {
	log := Logger
	if e.client != nil {
		log = e.client.log
	}
	logUnknownType(log, d)

	e.mu.Lock()
	e.diagnostics = append(e.diagnostics, d)
	e.mu.Unlock()
}

// field returns the raw value stored under key in the response object.
func (e *Envelope) field(key, expected string) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(e.Response, &obj); err != nil || obj == nil {
		return nil, &MalformedEnvelopeError{Field: key, Expected: "an object response", Err: err}
	}
	raw, ok := obj[key]
	if !ok {
		return nil, &MalformedEnvelopeError{Field: key, Expected: expected}
	}
	return raw, nil
}

func (e *Envelope) decodeField(key, expected string, v any) error {
	raw, err := e.field(key, expected)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &MalformedEnvelopeError{Field: key, Expected: expected, Err: err}
	}
	return nil
}

func (e *Envelope) decodeWhole(expected string, v any) error {
	if err := json.Unmarshal(e.Response, v); err != nil {
		return &MalformedEnvelopeError{Expected: expected, Err: err}
	}
	return nil
}

// noNull fails when a decoded list holds an element that was JSON null.
func noNull[T any](list []*T, key, expected string) error {
	if lo.Contains(list, (*T)(nil)) {
		return &MalformedEnvelopeError{Field: key, Expected: expected, Err: errNullElement}
	}
	return nil
}

func checkUser(u *User, key string) error {
	return noNull(u.Blogs, key, "a user whose blogs are objects")
}

func (e *Envelope) postsIn(raw json.RawMessage, key string) ([]Post, error) {
	posts, err := decodePosts(raw, e.onUnknown)
	if err != nil {
		var malformed *MalformedPostError
		if errors.As(err, &malformed) {
			return nil, err
		}
		return nil, &MalformedEnvelopeError{Field: key, Expected: "an array of posts", Err: err}
	}
	lo.ForEach(posts, func(p Post, _ int) { p.Base().setClient(e.client) })
	return posts, nil
}

// User projects {"user": {...}}.
func (e *Envelope) User() (*User, error) {
	u := &User{}
	if err := e.decodeField("user", "a user object", u); err != nil {
		return nil, err
	}
	if err := checkUser(u, "user"); err != nil {
		return nil, err
	}
	u.setClient(e.client)
	return u, nil
}

// Blog projects {"blog": {...}}.
func (e *Envelope) Blog() (*Blog, error) {
	b := &Blog{}
	if err := e.decodeField("blog", "a blog object", b); err != nil {
		return nil, err
	}
	b.setClient(e.client)
	return b, nil
}

// Post projects {"post": {...}}. Some endpoints return a single post as a
// one element "posts" array; that shape is accepted too.
func (e *Envelope) Post() (Post, error) {
	raw, err := e.field("post", "a post object")
	if err != nil {
		posts, perr := e.Posts()
		var malformed *MalformedPostError
		if errors.As(perr, &malformed) {
			return nil, perr
		}
		if perr != nil || len(posts) != 1 {
			return nil, err
		}
		return posts[0], nil
	}
	p, err := decodePost(raw, e.onUnknown)
	if err != nil {
		return nil, err
	}
	p.Base().setClient(e.client)
	return p, nil
}

// ID projects {"id": n}. The id may arrive as a number or a numeric string.
func (e *Envelope) ID() (int64, error) {
	var id NullInt64
	if err := e.decodeField("id", "an integer id", &id); err != nil {
		return 0, err
	}
	if !id.Valid {
		return 0, &MalformedEnvelopeError{Field: "id", Expected: "an integer id"}
	}
	return id.Int64, nil
}

// FollowedBy projects {"followed_by": bool}.
func (e *Envelope) FollowedBy() (bool, error) {
	var followed bool
	if err := e.decodeField("followed_by", "a boolean", &followed); err != nil {
		return false, err
	}
	return followed, nil
}

// Posts projects {"posts": [...]}.
func (e *Envelope) Posts() ([]Post, error) {
	raw, err := e.field("posts", "an array of posts")
	if err != nil {
		return nil, err
	}
	return e.postsIn(raw, "posts")
}

// LikedPosts projects {"liked_posts": [...]}.
func (e *Envelope) LikedPosts() ([]Post, error) {
	raw, err := e.field("liked_posts", "an array of posts")
	if err != nil {
		return nil, err
	}
	return e.postsIn(raw, "liked_posts")
}

// TaggedPosts projects a response that is itself an array of posts.
func (e *Envelope) TaggedPosts() ([]Post, error) {
	return e.postsIn(e.Response, "")
}

// Users projects {"users": [...]}.
func (e *Envelope) Users() ([]*User, error) {
	var users []*User
	if err := e.decodeField("users", "an array of users", &users); err != nil {
		return nil, err
	}
	if err := noNull(users, "users", "an array of users"); err != nil {
		return nil, err
	}
	for _, u := range users {
		if err := checkUser(u, "users"); err != nil {
			return nil, err
		}
	}
	lo.ForEach(users, func(u *User, _ int) { u.setClient(e.client) })
	return users, nil
}

// Followers projects a blog's follower list, which the API sends under
// "users".
func (e *Envelope) Followers() ([]*Follower, error) {
	var followers []*Follower
	if err := e.decodeField("users", "an array of followers", &followers); err != nil {
		return nil, err
	}
	if err := noNull(followers, "users", "an array of followers"); err != nil {
		return nil, err
	}
	lo.ForEach(followers, func(f *Follower, _ int) { f.setClient(e.client) })
	return followers, nil
}

// Blogs projects {"blogs": [...]}.
func (e *Envelope) Blogs() ([]*Blog, error) {
	var blogs []*Blog
	if err := e.decodeField("blogs", "an array of blogs", &blogs); err != nil {
		return nil, err
	}
	if err := noNull(blogs, "blogs", "an array of blogs"); err != nil {
		return nil, err
	}
	lo.ForEach(blogs, func(b *Blog, _ int) { b.setClient(e.client) })
	return blogs, nil
}

// Notifications projects the whole response as a notifications feed.
func (e *Envelope) Notifications() (*Notifications, error) {
	n := &Notifications{}
	if err := e.decodeWhole("a notifications object", n); err != nil {
		return nil, err
	}
	return n, nil
}

// Notes projects the whole response as a notes listing.
func (e *Envelope) Notes() (*Notes, error) {
	n := &Notes{}
	if err := e.decodeWhole("a notes object", n); err != nil {
		return nil, err
	}
	return n, nil
}

// UserLimits projects the whole response as the user's limits.
func (e *Envelope) UserLimits() (*UserLimits, error) {
	l := &UserLimits{}
	if err := e.decodeWhole("a limits object", l); err != nil {
		return nil, err
	}
	return l, nil
}
