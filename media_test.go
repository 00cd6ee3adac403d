package tumblr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioSourceConflict(t *testing.T) {
	p := &AudioPost{}
	require.NoError(t, p.SetData("/tmp/song.mp3"))
	assert.ErrorIs(t, p.SetExternalURL("https://example/song.mp3"), ErrConflictingMediaSource)
	assert.True(t, p.Source().IsFile())
	assert.Equal(t, File("/tmp/song.mp3"), p.Source().File())

	d := p.Detail()
	assert.Equal(t, File("/tmp/song.mp3"), d["data"])
	assert.Contains(t, d, "external_url")
	assert.Nil(t, d["external_url"])

	p = &AudioPost{}
	require.NoError(t, p.SetExternalURL("https://example/song.mp3"))
	require.NoError(t, p.SetExternalURL("https://example/other.mp3"))
	assert.ErrorIs(t, p.SetData("/tmp/song.mp3"), ErrConflictingMediaSource)
	assert.Equal(t, "https://example/other.mp3", p.Source().Remote())

	d = p.Detail()
	assert.Equal(t, "https://example/other.mp3", d["external_url"])
	assert.Nil(t, d["data"])
}

func TestVideoSourceConflict(t *testing.T) {
	p := &VideoPost{}
	require.NoError(t, p.SetEmbedCode("<iframe/>"))
	assert.ErrorIs(t, p.SetData("/tmp/clip.mp4"), ErrConflictingMediaSource)
	assert.Equal(t, "<iframe/>", p.Source().Remote())

	d := p.Detail()
	assert.Equal(t, "<iframe/>", d["embed"])
	assert.Nil(t, d["data"])

	p = &VideoPost{}
	require.NoError(t, p.SetData("/tmp/clip.mp4"))
	assert.ErrorIs(t, p.SetEmbedCode("<iframe/>"), ErrConflictingMediaSource)
	assert.Equal(t, File("/tmp/clip.mp4"), p.Detail()["data"])
}

func TestSetSourceReplacesUnion(t *testing.T) {
	p := &VideoPost{}
	require.NoError(t, p.SetData("/tmp/clip.mp4"))
	p.SetSource(RemoteSource("<iframe/>"))
	assert.True(t, p.Source().IsRemote())
	assert.Equal(t, File(""), p.Source().File())

	p.SetSource(MediaSource{})
	assert.True(t, p.Source().IsZero())
	d := p.Detail()
	assert.Nil(t, d["embed"])
	assert.Nil(t, d["data"])
}

func TestPhotoSources(t *testing.T) {
	p := &PhotoPost{Caption: "c"}
	require.NoError(t, p.AddPhoto(FileSource("/tmp/a.png")))
	require.NoError(t, p.AddPhoto(FileSource("/tmp/b.png")))
	assert.ErrorIs(t, p.AddPhoto(RemoteSource("https://example/a.png")), ErrConflictingMediaSource)
	assert.Error(t, p.AddPhoto(MediaSource{}))
	assert.Len(t, p.PendingPhotos(), 2)

	d := p.Detail()
	assert.Equal(t, "c", d["caption"])
	assert.Equal(t, File("/tmp/a.png"), d["data[0]"])
	assert.Equal(t, File("/tmp/b.png"), d["data[1]"])
	assert.NotContains(t, d, "source")

	p.ClearPhotos()
	require.NoError(t, p.AddPhoto(RemoteSource("https://example/a.png")))
	assert.ErrorIs(t, p.AddPhoto(RemoteSource("https://example/b.png")), ErrConflictingMediaSource)
	assert.ErrorIs(t, p.AddPhoto(FileSource("/tmp/a.png")), ErrConflictingMediaSource)

	d = p.Detail()
	assert.Equal(t, "https://example/a.png", d["source"])
	assert.NotContains(t, d, "data[0]")
}
