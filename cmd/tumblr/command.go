package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	tumblr "github.com/dictor/go-tumblr"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const postsPerRequest = 20

var batchHandlers = []string{"pixiv", "name", "split"}

type (
	BatchUploadFolder struct {
		Tag  string
		Path string
	}

	uploadOptions struct {
		state   string
		caption string
	}
)

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printPosts(posts []tumblr.Post) {
	for _, p := range posts {
		fmt.Printf("%s\t%s\t%s\n", p.Base().ID, p.Type(), p.Base().PostURL)
	}
}

/*
args = [blog]
*/
func execInfo(cmd *cobra.Command, args []string) error {
	blog, err := client.BlogInfo(cmd.Context(), args[0], nil)
	if err != nil {
		return err
	}
	return printJSON(blog)
}

func execLimits(cmd *cobra.Command, args []string) error {
	limits, err := client.UserLimits(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(limits)
}

func newPostsCommand() *cobra.Command {
	var (
		postType      string
		tag           string
		limit, offset int
	)
	cmd := &cobra.Command{
		Use:   "posts [blog]",
		Short: "list a blog's posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := tumblr.Params{
				"type":   lo.Ternary[any](postType != "", postType, nil),
				"tag":    lo.Ternary[any](tag != "", tag, nil),
				"limit":  limit,
				"offset": offset,
			}
			posts, err := client.BlogPosts(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			printPosts(posts)
			return nil
		},
	}
	cmd.Flags().StringVar(&postType, "type", "", "only list posts of this type")
	cmd.Flags().StringVar(&tag, "tag", "", "only list posts with this tag")
	cmd.Flags().IntVar(&limit, "limit", postsPerRequest, "number of posts")
	cmd.Flags().IntVar(&offset, "offset", 0, "post number to start at")
	return cmd
}

func newTaggedCommand() *cobra.Command {
	var (
		limit  int
		before int64
	)
	cmd := &cobra.Command{
		Use:   "tagged [tag]",
		Short: "list public posts with a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := tumblr.Params{
				"limit":  limit,
				"before": lo.Ternary[any](before > 0, before, nil),
			}
			posts, err := client.Tagged(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			printPosts(posts)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", postsPerRequest, "number of posts")
	cmd.Flags().Int64Var(&before, "before", 0, "only posts before this unix timestamp")
	return cmd
}

func newAvatarCommand() *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "avatar [blog]",
		Short: "print the url of a blog's avatar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := client.BlogAvatar(cmd.Context(), args[0], size)
			if err != nil {
				return err
			}
			fmt.Println(url)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 0, "avatar size in pixels (16, 24, 30, 40, 48, 64, 96, 128, 512)")
	return cmd
}

func newUploadCommand() *cobra.Command {
	opts := uploadOptions{}
	cmd := &cobra.Command{
		Use:   "upload [blog] [directory] [tags]",
		Short: "create one post per media file in a directory",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return uploadDirectory(cmd.Context(), args[0], args[1], splitTags(args[2]), opts)
		},
	}
	cmd.Flags().StringVar(&opts.state, "state", tumblr.StatePublished, "state of created posts (published, queued, draft, private)")
	cmd.Flags().StringVar(&opts.caption, "caption", "", "caption of created posts")
	return cmd
}

func splitTags(s string) []string {
	return lo.FilterMap(strings.Split(s, ","), func(t string, _ int) (string, bool) {
		t = strings.TrimSpace(t)
		return t, t != ""
	})
}

// collectMediaFiles returns every file below dir with a known media extension.
func collectMediaFiles(dir string) ([]string, error) {
	filePaths := []string{}
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if lo.Contains(MediaExtension, strings.ToLower(filepath.Ext(info.Name()))) {
			filePaths = append(filePaths, path)
		}
		return nil
	})
	return filePaths, err
}

// newMediaPost builds an unsaved post that uploads the file at path.
func newMediaPost(blog, path string, opts uploadOptions) (tumblr.Post, error) {
	var (
		post tumblr.Post
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".webm":
		v := &tumblr.VideoPost{Caption: opts.caption}
		err = v.SetData(path)
		post = v
	case ".mp3":
		a := &tumblr.AudioPost{Caption: opts.caption}
		err = a.SetData(path)
		post = a
	default:
		p := &tumblr.PhotoPost{Caption: opts.caption}
		err = p.AddPhoto(tumblr.FileSource(path))
		post = p
	}
	if err != nil {
		return nil, err
	}
	post.Base().BlogName = blog
	post.Base().State = opts.state
	return post, nil
}

func uploadDirectory(ctx context.Context, blog, dir string, tags []string, opts uploadOptions) error {
	filePaths, err := collectMediaFiles(dir)
	if err != nil {
		Logger.WithError(err).Errorln("error caused during walking directory")
		return err
	}
	Logger.Infof("%d files will be uploaded", len(filePaths))

	logError := func(cur, total int, err error, path, action string) {
		Logger.WithFields(logrus.Fields{
			"error": err,
			"path":  path,
		}).Errorf("(%d/%d) error : %s\n", cur+1, total, action)
	}

	for i, path := range filePaths {
		post, err := newMediaPost(blog, path, opts)
		if err != nil {
			logError(i, len(filePaths), err, path, "build post")
			continue
		}
		lo.ForEach(tags, func(t string, _ int) { post.Base().AddTag(t) })
		if err := client.SavePost(ctx, post); err != nil {
			logError(i, len(filePaths), err, path, "create post")
			continue
		}
		Logger.Infof("(%d/%d) uploaded : %s (%s)", i+1, len(filePaths), path, post.Base().ID)
	}
	return nil
}

// folderTag derives the tag of a batch upload folder from its name.
func folderTag(handler, name string) (string, error) {
	var (
		Name   string
		Number int
	)
	switch handler {
	case "pixiv":
		n, err := fmt.Sscanf(name, "%s (%d)", &Name, &Number)
		if n != 2 || err != nil {
			return "", fmt.Errorf("fail to parse folder name '%s'", name)
		}
		return fmt.Sprintf("%s(%d)", strings.Replace(Name, " ", "_", -1), Number), nil
	case "name":
		n, err := fmt.Sscanf(name, "%s", &Name)
		if n != 1 || err != nil {
			return "", fmt.Errorf("fail to parse folder name '%s'", name)
		}
		return Name, nil
	case "split":
		return strings.Replace(name, " ", ",", -1), nil
	default:
		return "", fmt.Errorf("unknown handler name: %s", handler)
	}
}

func collectBatchFolders(root, handler string) ([]BatchUploadFolder, error) {
	if !lo.Contains(batchHandlers, handler) {
		return nil, fmt.Errorf("unknown handler name: %s", handler)
	}
	folders := []BatchUploadFolder{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root || !d.IsDir() {
			return nil
		}
		tag, err := folderTag(handler, d.Name())
		if err != nil {
			Logger.WithField("path", path).Warnln(err)
			return nil
		}
		folders = append(folders, BatchUploadFolder{Tag: tag, Path: path})
		return nil
	})
	return folders, err
}

/*
args = [blog, directory, handler]
*/
func execBatchUpload(cmd *cobra.Command, args []string) error {
	folders, err := collectBatchFolders(args[1], args[2])
	if err != nil {
		return err
	}
	Logger.Infof("%d folders are parsed\n", len(folders))

	for _, f := range folders {
		Logger.WithFields(logrus.Fields{"path": f.Path, "tag": f.Tag}).Infoln("upload folder")
		if err := uploadDirectory(cmd.Context(), args[0], f.Path, splitTags(f.Tag), uploadOptions{state: tumblr.StatePublished}); err != nil {
			return err
		}
	}
	return nil
}

// queryPosts collects every post of blog carrying tag.
func queryPosts(ctx context.Context, blog, tag string) ([]tumblr.Post, error) {
	posts := []tumblr.Post{}
	for {
		page, err := client.BlogPosts(ctx, blog, tumblr.Params{
			"tag":    tag,
			"limit":  postsPerRequest,
			"offset": len(posts),
		})
		if err != nil {
			return posts, err
		}
		posts = append(posts, page...)
		if len(page) < postsPerRequest {
			return posts, nil
		}
	}
}

/*
args = [blog, tag, except noted (bool)]
*/
func execDelete(cmd *cobra.Command, args []string) error {
	posts, err := queryPosts(cmd.Context(), args[0], args[1])
	if err != nil {
		Logger.WithFields(logrus.Fields{
			"error": err,
			"tag":   args[1],
		}).Errorln("error caused during querying posts")
		return err
	}
	Logger.Infof("posts retrieving complete. %d posts are retrieved\n", len(posts))
	fmt.Print("if want to continue, press enter (else, press ctrl + c)")
	fmt.Scanln()

	for i, p := range posts {
		base := p.Base()
		if args[2] == "true" && base.NoteCount.Int64 > 0 {
			Logger.Infof("(%d/%d) skipped : %s", i+1, len(posts), base.ID)
			continue
		}
		if err := base.Delete(cmd.Context()); err != nil {
			Logger.WithFields(logrus.Fields{
				"error": err,
				"id":    base.ID.String(),
			}).Errorf("(%d/%d) error : %s\n", i+1, len(posts), base.ID)
			continue
		}
		Logger.Infof("(%d/%d) deleted : %s", i+1, len(posts), base.ID)
	}
	return nil
}
