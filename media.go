package tumblr

type sourceKind int

const (
	sourceNone sourceKind = iota
	sourceRemote
	sourceFile
)

// MediaSource is where uploaded media comes from: nothing, a remote
// reference (URL or embed code), or a local file. It can never be both.
type MediaSource struct {
	kind   sourceKind
	remote string
	file   File
}

// RemoteSource references media that is already online. For video posts
// this is the embed code.
func RemoteSource(ref string) MediaSource {
	return MediaSource{kind: sourceRemote, remote: ref}
}

// FileSource references a local file that is uploaded as a multipart part.
func FileSource(path string) MediaSource {
	return MediaSource{kind: sourceFile, file: File(path)}
}

func (s MediaSource) IsZero() bool   { return s.kind == sourceNone }
func (s MediaSource) IsRemote() bool { return s.kind == sourceRemote }
func (s MediaSource) IsFile() bool   { return s.kind == sourceFile }

// Remote returns the remote reference, or "" for other kinds.
func (s MediaSource) Remote() string { return s.remote }

// File returns the local file, or "" for other kinds.
func (s MediaSource) File() File { return s.file }

func (s MediaSource) remoteParam() any {
	if s.kind != sourceRemote {
		return nil
	}
	return s.remote
}

func (s MediaSource) fileParam() any {
	if s.kind != sourceFile {
		return nil
	}
	return s.file
}

// setRemote and setFile refuse to overwrite a source of the other kind.
func (s *MediaSource) setRemote(ref string) error {
	if s.kind == sourceFile {
		return ErrConflictingMediaSource
	}
	*s = RemoteSource(ref)
	return nil
}

func (s *MediaSource) setFile(path string) error {
	if s.kind == sourceRemote {
		return ErrConflictingMediaSource
	}
	*s = FileSource(path)
	return nil
}

// AudioPost is a post of type "audio".
type AudioPost struct {
	PostBase
	Caption     string    `json:"caption"`
	Player      string    `json:"player"`
	AudioURL    string    `json:"audio_url"`
	Plays       NullInt64 `json:"plays"`
	AlbumArt    string    `json:"album_art"`
	Artist      string    `json:"artist"`
	Album       string    `json:"album"`
	TrackName   string    `json:"track_name"`
	TrackNumber NullInt64 `json:"track_number"`
	Year        NullInt64 `json:"year"`

	source MediaSource
}

func (p *AudioPost) Type() PostType { return TypeAudio }

// Source returns the upload source.
func (p *AudioPost) Source() MediaSource { return p.source }

// SetSource replaces the upload source.
func (p *AudioPost) SetSource(src MediaSource) { p.source = src }

// SetExternalURL sets a remote audio URL. It fails if a file is already set.
func (p *AudioPost) SetExternalURL(url string) error {
	return p.source.setRemote(url)
}

// SetData sets a local audio file. It fails if a remote URL is already set.
func (p *AudioPost) SetData(path string) error {
	return p.source.setFile(path)
}

func (p *AudioPost) Detail() Params {
	d := p.detail(p.Type())
	d["caption"] = optional(p.Caption)
	d["data"] = p.source.fileParam()
	d["external_url"] = p.source.remoteParam()
	return d
}

func (p *AudioPost) MarshalJSON() ([]byte, error) {
	type alias AudioPost
	return marshalTyped(p.Type(), (*alias)(p))
}

// VideoPlayer is one playable rendition of a video post.
type VideoPlayer struct {
	Width     int    `json:"width"`
	EmbedCode string `json:"embed_code"`
}

// VideoPost is a post of type "video". On input the remote source is an
// embed code; on output the API returns player HTML in Players.
type VideoPost struct {
	PostBase
	Caption         string        `json:"caption"`
	Players         []VideoPlayer `json:"player"`
	PermalinkURL    string        `json:"permalink_url"`
	ThumbnailURL    string        `json:"thumbnail_url"`
	ThumbnailWidth  int           `json:"thumbnail_width"`
	ThumbnailHeight int           `json:"thumbnail_height"`

	source MediaSource
}

func (p *VideoPost) Type() PostType { return TypeVideo }

// Source returns the upload source.
func (p *VideoPost) Source() MediaSource { return p.source }

// SetSource replaces the upload source.
func (p *VideoPost) SetSource(src MediaSource) { p.source = src }

// SetEmbedCode sets the embed HTML. It fails if a file is already set.
func (p *VideoPost) SetEmbedCode(embed string) error {
	return p.source.setRemote(embed)
}

// SetData sets a local video file. It fails if an embed code is already set.
func (p *VideoPost) SetData(path string) error {
	return p.source.setFile(path)
}

func (p *VideoPost) Detail() Params {
	d := p.detail(p.Type())
	d["caption"] = optional(p.Caption)
	d["embed"] = p.source.remoteParam()
	d["data"] = p.source.fileParam()
	return d
}

func (p *VideoPost) MarshalJSON() ([]byte, error) {
	type alias VideoPost
	return marshalTyped(p.Type(), (*alias)(p))
}

// PhotoSize is one rendition of a photo.
type PhotoSize struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

// Photo is a photo inside a photo or link post.
type Photo struct {
	Caption      string      `json:"caption"`
	OriginalSize *PhotoSize  `json:"original_size"`
	AltSizes     []PhotoSize `json:"alt_sizes"`
}
