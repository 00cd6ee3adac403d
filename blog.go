package tumblr

import (
	"context"
	"fmt"
	"strings"
)

// blogURL turns a bare blog name into its tumblr.com hostname. Names that
// already contain a dot are used as is.
func blogURL(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return name + ".tumblr.com"
}

func blogPath(name, ext string) string {
	return "/blog/" + blogURL(name) + ext
}

// withAPIKey returns a copy of opts carrying the consumer key, as public
// endpoints require.
func (c *Client) withAPIKey(opts Params) Params {
	p := opts.clone()
	p["api_key"] = c.APIKey()
	return p
}

// BlogInfo fetches a blog's public information.
func (c *Client) BlogInfo(ctx context.Context, blogName string, opts Params) (*Blog, error) {
	env, err := c.Get(ctx, blogPath(blogName, "/info"), c.withAPIKey(opts))
	if err != nil {
		return nil, err
	}
	return env.Blog()
}

// BlogAvatar returns the URL of a blog's avatar. A size of 0 asks for the
// default size.
func (c *Client) BlogAvatar(ctx context.Context, blogName string, size int) (string, error) {
	ext := "/avatar"
	if size > 0 {
		ext = fmt.Sprintf("/avatar/%d", size)
	}
	return c.RedirectURL(ctx, blogPath(blogName, ext))
}

// BlogFollowers lists the followers of a blog the user owns.
func (c *Client) BlogFollowers(ctx context.Context, blogName string, opts Params) ([]*Follower, error) {
	env, err := c.Get(ctx, blogPath(blogName, "/followers"), opts)
	if err != nil {
		return nil, err
	}
	return env.Followers()
}

// BlogFollowedBy reports whether otherBlog follows blogName.
func (c *Client) BlogFollowedBy(ctx context.Context, blogName, otherBlog string) (bool, error) {
	env, err := c.Get(ctx, blogPath(blogName, "/followed_by"), Params{"query": otherBlog})
	if err != nil {
		return false, err
	}
	return env.FollowedBy()
}

// BlogLikes lists the posts a blog has liked.
func (c *Client) BlogLikes(ctx context.Context, blogName string, opts Params) ([]Post, error) {
	env, err := c.Get(ctx, blogPath(blogName, "/likes"), c.withAPIKey(opts))
	if err != nil {
		return nil, err
	}
	return env.LikedPosts()
}

// BlogPosts lists a blog's published posts. A "type" option narrows the
// listing to one post type.
func (c *Client) BlogPosts(ctx context.Context, blogName string, opts Params) ([]Post, error) {
	p := c.withAPIKey(opts)
	path := blogPath(blogName, "/posts")
	if t, ok := p["type"]; ok {
		delete(p, "type")
		if t != nil {
			path += "/" + fmt.Sprint(t)
		}
	}
	env, err := c.Get(ctx, path, p)
	if err != nil {
		return nil, err
	}
	return env.Posts()
}

// BlogPost fetches a single post by id.
func (c *Client) BlogPost(ctx context.Context, blogName string, id int64) (Post, error) {
	posts, err := c.BlogPosts(ctx, blogName, Params{"id": id})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, &MalformedEnvelopeError{Field: "posts", Expected: "exactly one post"}
	}
	return posts[0], nil
}

func (c *Client) blogPostList(ctx context.Context, blogName, ext string, opts Params) ([]Post, error) {
	env, err := c.Get(ctx, blogPath(blogName, ext), opts)
	if err != nil {
		return nil, err
	}
	return env.Posts()
}

// BlogQueuedPosts lists the posts in a blog's queue.
func (c *Client) BlogQueuedPosts(ctx context.Context, blogName string, opts Params) ([]Post, error) {
	return c.blogPostList(ctx, blogName, "/posts/queue", opts)
}

// BlogDraftPosts lists a blog's drafts.
func (c *Client) BlogDraftPosts(ctx context.Context, blogName string, opts Params) ([]Post, error) {
	return c.blogPostList(ctx, blogName, "/posts/draft", opts)
}

// BlogSubmissions lists the posts submitted to a blog.
func (c *Client) BlogSubmissions(ctx context.Context, blogName string, opts Params) ([]Post, error) {
	return c.blogPostList(ctx, blogName, "/posts/submission", opts)
}

// BlogNotifications fetches a blog's activity feed.
func (c *Client) BlogNotifications(ctx context.Context, blogName string, opts Params) (*Notifications, error) {
	env, err := c.Get(ctx, blogPath(blogName, "/notifications"), opts)
	if err != nil {
		return nil, err
	}
	return env.Notifications()
}

// BlogPostNotes fetches the notes of one post.
func (c *Client) BlogPostNotes(ctx context.Context, blogName string, id int64, opts Params) (*Notes, error) {
	p := c.withAPIKey(opts)
	p["id"] = id
	env, err := c.Get(ctx, blogPath(blogName, "/notes"), p)
	if err != nil {
		return nil, err
	}
	return env.Notes()
}

func (b *Blog) Avatar(ctx context.Context, size int) (string, error) {
	if b.client == nil {
		return "", ErrNoClient
	}
	return b.client.BlogAvatar(ctx, b.Name, size)
}

func (b *Blog) Posts(ctx context.Context, opts Params) ([]Post, error) {
	if b.client == nil {
		return nil, ErrNoClient
	}
	return b.client.BlogPosts(ctx, b.Name, opts)
}

func (b *Blog) Post(ctx context.Context, id int64) (Post, error) {
	if b.client == nil {
		return nil, ErrNoClient
	}
	return b.client.BlogPost(ctx, b.Name, id)
}

func (b *Blog) Followers(ctx context.Context, opts Params) ([]*Follower, error) {
	if b.client == nil {
		return nil, ErrNoClient
	}
	return b.client.BlogFollowers(ctx, b.Name, opts)
}

func (b *Blog) LikedPosts(ctx context.Context, opts Params) ([]Post, error) {
	if b.client == nil {
		return nil, ErrNoClient
	}
	return b.client.BlogLikes(ctx, b.Name, opts)
}

func (b *Blog) QueuedPosts(ctx context.Context, opts Params) ([]Post, error) {
	if b.client == nil {
		return nil, ErrNoClient
	}
	return b.client.BlogQueuedPosts(ctx, b.Name, opts)
}

func (b *Blog) DraftPosts(ctx context.Context, opts Params) ([]Post, error) {
	if b.client == nil {
		return nil, ErrNoClient
	}
	return b.client.BlogDraftPosts(ctx, b.Name, opts)
}

func (b *Blog) Submissions(ctx context.Context, opts Params) ([]Post, error) {
	if b.client == nil {
		return nil, ErrNoClient
	}
	return b.client.BlogSubmissions(ctx, b.Name, opts)
}

func (b *Blog) Notifications(ctx context.Context, opts Params) (*Notifications, error) {
	if b.client == nil {
		return nil, ErrNoClient
	}
	return b.client.BlogNotifications(ctx, b.Name, opts)
}

// Follow follows this blog as the authenticated user.
func (b *Blog) Follow(ctx context.Context) (*Blog, error) {
	if b.client == nil {
		return nil, ErrNoClient
	}
	return b.client.Follow(ctx, b.Name)
}

func (b *Blog) Unfollow(ctx context.Context) (*Blog, error) {
	if b.client == nil {
		return nil, ErrNoClient
	}
	return b.client.Unfollow(ctx, b.Name)
}

// NewPost returns an empty post of type t bound to this blog.
func (b *Blog) NewPost(t PostType) (Post, error) {
	if b.client == nil {
		return nil, ErrNoClient
	}
	return b.client.NewPost(b.Name, t)
}
