package tumblr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEnvelope(t *testing.T, c *Client, body string) *Envelope {
	t.Helper()
	env, err := parseEnvelope([]byte(body))
	require.NoError(t, err)
	env.client = c
	return env
}

func testClient() *Client {
	return NewClient(Config{ConsumerKey: "ck", Logger: quietLogger()})
}

func TestParseEnvelopeRejectsEmpty(t *testing.T) {
	for _, body := range []string{`{}`, `{"response": null}`, `{"meta": {"status": 200}}`, `nope`} {
		_, err := parseEnvelope([]byte(body))
		assert.Error(t, err, body)
	}

	env, err := parseEnvelope([]byte(`{"meta": {"status": 200, "msg": "OK"}, "response": []}`))
	require.NoError(t, err)
	assert.Equal(t, Meta{Status: 200, Msg: "OK"}, env.Meta)
}

func TestEnvelopeSingleResources(t *testing.T) {
	c := testClient()
	env := mustEnvelope(t, c, `{"response": {
		"user": {"name": "me", "likes": 3, "blogs": [{"name": "mine", "posts": 10}]},
		"blog": {"name": "staff", "title": "Staff", "updated": "", "avatar": [{"width": 64, "height": 64, "url": "u"}]},
		"post": {"type": "quote", "id": 4, "text": "q"},
		"id": "77",
		"followed_by": true
	}}`)

	user, err := env.User()
	require.NoError(t, err)
	assert.Equal(t, "me", user.Name)
	assert.Same(t, c, user.Client())
	require.Len(t, user.Blogs, 1)
	assert.Equal(t, 10, user.Blogs[0].PostCount)
	assert.Same(t, c, user.Blogs[0].Client())

	blog, err := env.Blog()
	require.NoError(t, err)
	assert.Equal(t, "Staff", blog.Title)
	assert.False(t, blog.Updated.Valid)
	assert.Len(t, blog.Avatars, 1)
	assert.Same(t, c, blog.Client())

	post, err := env.Post()
	require.NoError(t, err)
	assert.IsType(t, &QuotePost{}, post)
	assert.Same(t, c, post.Base().Client())

	id, err := env.ID()
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)

	followed, err := env.FollowedBy()
	require.NoError(t, err)
	assert.True(t, followed)
}

func TestEnvelopeLists(t *testing.T) {
	c := testClient()
	env := mustEnvelope(t, c, `{"response": {
		"posts": [{"type": "text", "id": 1}, {"type": "photo", "id": 2}],
		"liked_posts": [{"type": "link", "id": 3}],
		"users": [{"name": "a", "following": true, "url": "https://a.tumblr.com", "updated": 1}],
		"blogs": [{"name": "b"}, {"name": "c"}]
	}}`)

	posts, err := env.Posts()
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.IsType(t, &TextPost{}, posts[0])
	assert.IsType(t, &PhotoPost{}, posts[1])
	for _, p := range posts {
		assert.Same(t, c, p.Base().Client())
	}

	liked, err := env.LikedPosts()
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.IsType(t, &LinkPost{}, liked[0])

	followers, err := env.Followers()
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.True(t, followers[0].Following)
	assert.Same(t, c, followers[0].client)

	users, err := mustEnvelope(t, c, `{"response": {"users": [{"name": "a", "following": 5}]}}`).Users()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 5, users[0].Following)
	assert.Same(t, c, users[0].Client())

	blogs, err := env.Blogs()
	require.NoError(t, err)
	assert.Len(t, blogs, 2)
	assert.Same(t, c, blogs[1].Client())

	// projections may be repeated
	again, err := env.Posts()
	require.NoError(t, err)
	assert.Equal(t, posts, again)
}

func TestEnvelopeTaggedPostsIsBareArray(t *testing.T) {
	c := testClient()
	env := mustEnvelope(t, c, `{"response": [{"type": "text", "id": 1}, {"type": "video", "id": 2}]}`)

	posts, err := env.TaggedPosts()
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.IsType(t, &VideoPost{}, posts[1])
	assert.Same(t, c, posts[1].Base().Client())

	_, err = env.Posts()
	var malformed *MalformedEnvelopeError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "posts", malformed.Field)
}

func TestEnvelopeWholeValueProjections(t *testing.T) {
	env := mustEnvelope(t, testClient(), `{"response": {
		"notifications": [{"type": "like", "timestamp": 10, "from_tumblelog_name": "a", "post_tags": ["x"]}],
		"total_notes": "5",
		"notes": [{"type": "reblog", "blog_name": "a", "post_id": "9"}],
		"_links": {"next": {"href": "/v2/next", "method": "GET", "query_params": {"before": "1"}}},
		"user": {"posts": {"description": "posts per day", "limit": 250, "remaining": 249, "reset_at": 100}}
	}}`)

	notifications, err := env.Notifications()
	require.NoError(t, err)
	require.Len(t, notifications.Notifications, 1)
	assert.Equal(t, []string{"x"}, notifications.Notifications[0].PostTags)
	require.NotNil(t, notifications.Links)
	assert.Equal(t, "1", notifications.Links.Next.QueryParams["before"])

	notes, err := env.Notes()
	require.NoError(t, err)
	assert.Equal(t, Int64Of(5), notes.TotalNotes)
	require.Len(t, notes.Notes, 1)
	assert.Equal(t, Int64Of(9), notes.Notes[0].PostID)

	limits, err := env.UserLimits()
	require.NoError(t, err)
	assert.Equal(t, 249, limits.User["posts"].Remaining)
	assert.Equal(t, Int64Of(100), limits.User["posts"].ResetAt)
}

func TestEnvelopeMalformedShapes(t *testing.T) {
	env := mustEnvelope(t, testClient(), `{"response": {"posts": {"not": "an array"}, "id": "abc", "user": []}}`)

	tests := []struct {
		name  string
		call  func() error
		field string
	}{
		{"posts not array", func() error { _, err := env.Posts(); return err }, "posts"},
		{"missing blog", func() error { _, err := env.Blog(); return err }, "blog"},
		{"user not object", func() error { _, err := env.User(); return err }, "user"},
		{"missing followed_by", func() error { _, err := env.FollowedBy(); return err }, "followed_by"},
		{"id not a number", func() error { _, err := env.ID(); return err }, "id"},
		{"missing users", func() error { _, err := env.Followers(); return err }, "users"},
		{"tagged on object", func() error { _, err := env.TaggedPosts(); return err }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var malformed *MalformedEnvelopeError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.Equal(t, tt.field, malformed.Field)
		})
	}

	arr := mustEnvelope(t, testClient(), `{"response": [1, 2]}`)
	_, err := arr.User()
	var malformed *MalformedEnvelopeError
	assert.True(t, errors.As(err, &malformed))
	_, err = arr.Notes()
	assert.True(t, errors.As(err, &malformed))
}

func TestEnvelopeBadPostFailsWholeList(t *testing.T) {
	env := mustEnvelope(t, testClient(), `{"response": {"posts": [{"type": "text", "id": 1}, "oops"]}}`)
	_, err := env.Posts()
	var malformed *MalformedPostError
	assert.True(t, errors.As(err, &malformed), "got %v", err)
}

func TestEnvelopeRecordsUnknownTypes(t *testing.T) {
	env := mustEnvelope(t, testClient(), `{"response": {"posts": [
		{"type": "text", "id": 1},
		{"type": "hologram", "id": 2},
		{"id": 3}
	]}}`)

	posts, err := env.Posts()
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.IsType(t, &UnknownPost{}, posts[1])
	assert.IsType(t, &UnknownPost{}, posts[2])

	diags := env.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "hologram", diags[0].TypeName)
	assert.Equal(t, Int64Of(2), diags[0].PostID)
}

func TestEnvelopeNullListElements(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		call  func(*Envelope) error
		field string
	}{
		{"users", `{"response": {"users": [null]}}`, func(e *Envelope) error { _, err := e.Users(); return err }, "users"},
		{"followers", `{"response": {"users": [{"name": "a"}, null]}}`, func(e *Envelope) error { _, err := e.Followers(); return err }, "users"},
		{"blogs", `{"response": {"blogs": [null]}}`, func(e *Envelope) error { _, err := e.Blogs(); return err }, "blogs"},
		{"user blogs", `{"response": {"user": {"name": "me", "blogs": [null]}}}`, func(e *Envelope) error { _, err := e.User(); return err }, "user"},
		{"users blogs", `{"response": {"users": [{"name": "me", "blogs": [null]}]}}`, func(e *Envelope) error { _, err := e.Users(); return err }, "users"},
		{"posts", `{"response": {"posts": [null]}}`, func(e *Envelope) error { _, err := e.Posts(); return err }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := mustEnvelope(t, testClient(), tt.body)
			var err error
			require.NotPanics(t, func() { err = tt.call(env) })
			require.Error(t, err)

			if tt.field == "" {
				var malformed *MalformedPostError
				assert.True(t, errors.As(err, &malformed), "got %v", err)
				return
			}
			var malformed *MalformedEnvelopeError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.Equal(t, tt.field, malformed.Field)
		})
	}
}

func TestEnvelopeRecordsEmptyAndNullTypes(t *testing.T) {
	env := mustEnvelope(t, testClient(), `{"response": {"posts": [
		{"type": "", "id": 1},
		{"type": null, "id": 2},
		{"id": 3}
	]}}`)

	posts, err := env.Posts()
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for _, p := range posts {
		assert.IsType(t, &UnknownPost{}, p)
	}

	diags := env.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, "", diags[0].TypeName)
	assert.Equal(t, Int64Of(1), diags[0].PostID)
	assert.Equal(t, Int64Of(2), diags[1].PostID)
}

func TestEnvelopePostKeepsMalformedPostError(t *testing.T) {
	env := mustEnvelope(t, testClient(), `{"response": {"posts": [{"type": "text", "id": "oops"}]}}`)
	_, err := env.Post()
	var malformed *MalformedPostError
	assert.True(t, errors.As(err, &malformed), "got %v", err)

	env = mustEnvelope(t, testClient(), `{"response": {"posts": [{"type": "text", "id": 4}]}}`)
	post, err := env.Post()
	require.NoError(t, err)
	assert.Equal(t, Int64Of(4), post.Base().ID)
}
