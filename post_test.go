package tumblr

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const audioPostJSON = `{
	"type": "audio",
	"id": 507,
	"blog_name": "music",
	"reblog_key": "abc",
	"post_url": "https://music.tumblr.com/post/507",
	"short_url": "https://tmblr.co/x",
	"timestamp": 1400000000,
	"liked_timestamp": "",
	"state": "queued",
	"format": "html",
	"date": "2014-05-13 16:53:20 GMT",
	"tags": ["synth", "live"],
	"mobile": true,
	"slug": "a-song",
	"reblogged_from_id": "12",
	"reblogged_from_name": "other",
	"reblogged_root_url": null,
	"note_count": 3,
	"caption": "<p>listen</p>",
	"player": "<embed/>",
	"audio_url": "https://a.tumblr.com/x.mp3",
	"plays": "",
	"artist": "Band",
	"track_name": "Song",
	"year": "2014",
	"trail": [{"blog": {"name": "other"}, "post": {"id": "12"}, "content_raw": "<p>hi</p>", "is_root_item": true}]
}`

const videoPostJSON = `{
	"type": "video",
	"id": "88",
	"blog_name": "films",
	"tags": [],
	"caption": "watch",
	"player": [{"width": 250, "embed_code": "<iframe/>"}, {"width": 500, "embed_code": "<iframe big/>"}],
	"permalink_url": "https://youtube.com/x",
	"thumbnail_url": "https://t/x.jpg",
	"thumbnail_width": 480,
	"thumbnail_height": 360
}`

func TestDecodePostWithoutTypeIsUnknown(t *testing.T) {
	var diags []Diagnostic
	p, err := decodePost([]byte(`{"id": 5, "blog_name": "b", "title": "ignored"}`), func(d Diagnostic) {
		diags = append(diags, d)
	})
	require.NoError(t, err)

	unknown, ok := p.(*UnknownPost)
	require.True(t, ok, "got %T", p)
	assert.Equal(t, TypeUnknown, unknown.Type())
	assert.Equal(t, "", unknown.TypeName)
	assert.Equal(t, Int64Of(5), unknown.ID)
	assert.Equal(t, "b", unknown.BlogName)
	assert.Equal(t, StatePublished, unknown.State)
	assert.Empty(t, diags)
}

func TestDecodePostUnknownTypeIsRecovered(t *testing.T) {
	var diags []Diagnostic
	p, err := decodePost([]byte(`{"type": "hologram", "id": 9}`), func(d Diagnostic) {
		diags = append(diags, d)
	})
	require.NoError(t, err)

	unknown, ok := p.(*UnknownPost)
	require.True(t, ok, "got %T", p)
	assert.Equal(t, "hologram", unknown.TypeName)
	require.Len(t, diags, 1)
	assert.Equal(t, "hologram", diags[0].TypeName)
	assert.Equal(t, Int64Of(9), diags[0].PostID)
}

func TestDecodePostVariants(t *testing.T) {
	tests := []struct {
		in   string
		want PostType
	}{
		{`{"type": "text", "title": "t", "body": "b"}`, TypeText},
		{`{"type": "PHOTO", "photos": [{"caption": "", "original_size": {"width": 1, "height": 2, "url": "u"}, "alt_sizes": []}]}`, TypePhoto},
		{`{"type": "quote", "text": "q", "source": "s"}`, TypeQuote},
		{`{"type": "link", "url": "https://x"}`, TypeLink},
		{`{"type": "chat", "dialogue": [{"name": "a", "label": "a:", "phrase": "hi"}]}`, TypeChat},
		{`{"type": "answer", "question": "why?", "answer": "because"}`, TypeAnswer},
		{audioPostJSON, TypeAudio},
		{videoPostJSON, TypeVideo},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			p, err := DecodePost([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Type())
		})
	}
}

func TestDecodePostMalformed(t *testing.T) {
	for _, in := range []string{`[]`, `"post"`, `null`, `{"type": 4}`, `{"type": "text", "id": "x"}`} {
		t.Run(in, func(t *testing.T) {
			_, err := DecodePost([]byte(in))
			var malformed *MalformedPostError
			require.True(t, errors.As(err, &malformed), "got %v", err)
		})
	}

	_, err := DecodePost([]byte(`{"type": "text", "id": "x"}`))
	var number *MalformedNumberError
	assert.True(t, errors.As(err, &number))
}

func TestAudioPostFields(t *testing.T) {
	p, err := DecodePost([]byte(audioPostJSON))
	require.NoError(t, err)
	audio := p.(*AudioPost)

	assert.Equal(t, Int64Of(507), audio.ID)
	assert.Equal(t, "queued", audio.State)
	assert.Equal(t, []string{"synth", "live"}, audio.Tags)
	assert.False(t, audio.LikedTimestamp.Valid)
	assert.Equal(t, Int64Of(12), audio.RebloggedFromID)
	require.NotNil(t, audio.RebloggedFromName)
	assert.Equal(t, "other", *audio.RebloggedFromName)
	assert.Nil(t, audio.RebloggedRootURL)
	assert.Equal(t, "<embed/>", audio.Player)
	assert.False(t, audio.Plays.Valid)
	assert.Equal(t, Int64Of(2014), audio.Year)

	require.Len(t, audio.Trail, 1)
	trail := audio.Trail[0]
	assert.Equal(t, "other", trail.Blog.Name)
	assert.IsType(t, &UnknownPost{}, trail.Post)
	assert.Equal(t, Int64Of(12), trail.Post.Base().ID)
	require.NotNil(t, trail.IsRootItem)
	assert.True(t, *trail.IsRootItem)
}

func TestRoundTripPreservesBase(t *testing.T) {
	for name, in := range map[string]string{"audio": audioPostJSON, "video": videoPostJSON} {
		t.Run(name, func(t *testing.T) {
			first, err := DecodePost([]byte(in))
			require.NoError(t, err)

			encoded, err := json.Marshal(first)
			require.NoError(t, err)
			second, err := DecodePost(encoded)
			require.NoError(t, err)

			assert.Equal(t, first.Type(), second.Type())
			assert.Equal(t, first.Base(), second.Base())
			assert.Equal(t, first, second)
		})
	}
}

func TestVideoPostFields(t *testing.T) {
	p, err := DecodePost([]byte(videoPostJSON))
	require.NoError(t, err)
	video := p.(*VideoPost)

	assert.Equal(t, Int64Of(88), video.ID)
	assert.Equal(t, StatePublished, video.State)
	require.Len(t, video.Players, 2)
	assert.Equal(t, VideoPlayer{Width: 500, EmbedCode: "<iframe big/>"}, video.Players[1])
	assert.Equal(t, 360, video.ThumbnailHeight)
}

func TestDetailIncludesUnsetFields(t *testing.T) {
	p := &TextPost{Title: "hello"}
	p.AddTag("a")
	p.AddTag("b")

	d := p.Detail()
	assert.Equal(t, "text", d["type"])
	assert.Equal(t, "hello", d["title"])
	assert.Equal(t, "a,b", d["tags"])
	for _, key := range []string{"body", "state", "format", "slug", "date"} {
		v, ok := d[key]
		assert.True(t, ok, key)
		assert.Nil(t, v, key)
	}
}

func TestVariantDetailKeys(t *testing.T) {
	tests := []struct {
		post Post
		want Params
	}{
		{&QuotePost{Text: "q", Source: "s"}, Params{"quote": "q", "source": "s"}},
		{&LinkPost{Title: "t", URL: "u"}, Params{"title": "t", "url": "u", "description": nil}},
		{&ChatPost{Body: "a: hi"}, Params{"title": nil, "conversation": "a: hi"}},
		{&AnswerPost{Answer: "yes"}, Params{"answer": "yes"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.post.Type()), func(t *testing.T) {
			d := tt.post.Detail()
			assert.Equal(t, string(tt.post.Type()), d["type"])
			for k, v := range tt.want {
				assert.Contains(t, d, k)
				assert.Equal(t, v, d[k], k)
			}
		})
	}
}

func TestTags(t *testing.T) {
	b := &PostBase{}
	b.AddTag("x")
	b.AddTag("y")
	b.AddTag("x")
	assert.Equal(t, []string{"x", "y", "x"}, b.Tags)

	b.RemoveTag("x")
	assert.Equal(t, []string{"y", "x"}, b.Tags)
	b.RemoveTag("missing")
	assert.Equal(t, []string{"y", "x"}, b.Tags)
}

func TestSetDateTimeUsesGMT(t *testing.T) {
	b := &PostBase{}
	b.SetDateTime(time.Date(2020, 1, 2, 9, 30, 0, 0, time.FixedZone("KST", 9*60*60)))
	assert.Equal(t, "2020/01/02 00:30:00", b.Date)
	assert.Equal(t, "2020/01/02 00:30:00", b.detail(TypeText)["date"])
}

func TestNewPost(t *testing.T) {
	for _, typ := range PostTypes() {
		p := NewPost(typ)
		require.NotNil(t, p, typ)
		assert.Equal(t, typ, p.Type())
	}
	assert.Nil(t, NewPost(TypeUnknown))
	assert.Nil(t, NewPost("hologram"))
	assert.IsType(t, &TextPost{}, NewPost("Text"))
}

func TestMarshalInjectsType(t *testing.T) {
	b, err := json.Marshal(&QuotePost{Text: "q"})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.Equal(t, "quote", fields["type"])
	assert.Equal(t, "q", fields["text"])
}

func TestDetachedPostMethods(t *testing.T) {
	ctx := context.Background()
	p := &TextPost{}
	assert.ErrorIs(t, p.Like(ctx), ErrNoClient)
	assert.ErrorIs(t, p.Unlike(ctx), ErrNoClient)
	assert.ErrorIs(t, p.Delete(ctx), ErrNoClient)
	_, err := p.Reblog(ctx, "b", nil)
	assert.ErrorIs(t, err, ErrNoClient)
}
