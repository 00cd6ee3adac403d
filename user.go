package tumblr

import "context"

// UserInfo fetches the authenticated user.
func (c *Client) UserInfo(ctx context.Context) (*User, error) {
	env, err := c.Get(ctx, "/user/info", nil)
	if err != nil {
		return nil, err
	}
	return env.User()
}

// UserDashboard lists the posts on the user's dashboard.
func (c *Client) UserDashboard(ctx context.Context, opts Params) ([]Post, error) {
	env, err := c.Get(ctx, "/user/dashboard", opts)
	if err != nil {
		return nil, err
	}
	return env.Posts()
}

// UserLikes lists the posts the user has liked.
func (c *Client) UserLikes(ctx context.Context, opts Params) ([]Post, error) {
	env, err := c.Get(ctx, "/user/likes", opts)
	if err != nil {
		return nil, err
	}
	return env.LikedPosts()
}

// UserFollowing lists the blogs the user follows.
func (c *Client) UserFollowing(ctx context.Context, opts Params) ([]*Blog, error) {
	env, err := c.Get(ctx, "/user/following", opts)
	if err != nil {
		return nil, err
	}
	return env.Blogs()
}

func (c *Client) UserLimits(ctx context.Context) (*UserLimits, error) {
	env, err := c.Get(ctx, "/user/limits", nil)
	if err != nil {
		return nil, err
	}
	return env.UserLimits()
}

func (c *Client) Like(ctx context.Context, id int64, reblogKey string) error {
	_, err := c.Post(ctx, "/user/like", Params{"id": id, "reblog_key": reblogKey})
	return err
}

func (c *Client) Unlike(ctx context.Context, id int64, reblogKey string) error {
	_, err := c.Post(ctx, "/user/unlike", Params{"id": id, "reblog_key": reblogKey})
	return err
}

// Follow follows a blog, given by name or hostname.
func (c *Client) Follow(ctx context.Context, blogName string) (*Blog, error) {
	return c.followRequest(ctx, "/user/follow", blogName)
}

func (c *Client) Unfollow(ctx context.Context, blogName string) (*Blog, error) {
	return c.followRequest(ctx, "/user/unfollow", blogName)
}

func (c *Client) followRequest(ctx context.Context, path, blogName string) (*Blog, error) {
	env, err := c.Post(ctx, path, Params{"url": blogURL(blogName)})
	if err != nil {
		return nil, err
	}
	return env.Blog()
}
