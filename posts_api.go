package tumblr

import (
	"context"
	"fmt"
)

// Tagged lists public posts carrying tag.
func (c *Client) Tagged(ctx context.Context, tag string, opts Params) ([]Post, error) {
	p := c.withAPIKey(opts)
	p["tag"] = tag
	env, err := c.Get(ctx, "/tagged", p)
	if err != nil {
		return nil, err
	}
	return env.TaggedPosts()
}

// CreatePost creates a post from detail and returns its id.
func (c *Client) CreatePost(ctx context.Context, blogName string, detail Params) (int64, error) {
	env, err := c.PostMultipart(ctx, blogPath(blogName, "/post"), detail)
	if err != nil {
		return 0, err
	}
	return env.ID()
}

// EditPost replaces the attributes of post id with detail.
func (c *Client) EditPost(ctx context.Context, blogName string, id int64, detail Params) error {
	p := detail.clone()
	p["id"] = id
	_, err := c.PostMultipart(ctx, blogPath(blogName, "/post/edit"), p)
	return err
}

func (c *Client) DeletePost(ctx context.Context, blogName string, id int64) error {
	_, err := c.Post(ctx, blogPath(blogName, "/post/delete"), Params{"id": id})
	return err
}

// ReblogPost reblogs post id onto blogName and returns the new post.
func (c *Client) ReblogPost(ctx context.Context, blogName string, id int64, reblogKey string, opts Params) (Post, error) {
	p := opts.clone()
	p["id"] = id
	p["reblog_key"] = reblogKey
	env, err := c.Post(ctx, blogPath(blogName, "/post/reblog"), p)
	if err != nil {
		return nil, err
	}
	newID, err := env.ID()
	if err != nil {
		return nil, err
	}
	return c.BlogPost(ctx, blogName, newID)
}

// SavePost creates p when it has no id yet and edits it otherwise. On
// creation the new id is stored on p.
func (c *Client) SavePost(ctx context.Context, p Post) error {
	base := p.Base()
	if base.BlogName == "" {
		return fmt.Errorf("save post: blog name is empty")
	}
	if !base.ID.Valid {
		id, err := c.CreatePost(ctx, base.BlogName, p.Detail())
		if err != nil {
			return err
		}
		base.ID = Int64Of(id)
		return nil
	}
	return c.EditPost(ctx, base.BlogName, base.ID.Int64, p.Detail())
}

// NewPost returns an empty post of type t for blogName, attached to c.
func (c *Client) NewPost(blogName string, t PostType) (Post, error) {
	p := NewPost(t)
	if p == nil {
		return nil, fmt.Errorf("new post: unsupported type %q", t)
	}
	p.Base().BlogName = blogName
	p.Base().setClient(c)
	return p, nil
}

// Save creates or edits p through the client it is attached to.
func Save(ctx context.Context, p Post) error {
	c := p.Base().Client()
	if c == nil {
		return ErrNoClient
	}
	return c.SavePost(ctx, p)
}
