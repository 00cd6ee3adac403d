package tumblr

import (
	"fmt"
)

// TextPost is a post of type "text".
type TextPost struct {
	PostBase
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (p *TextPost) Type() PostType { return TypeText }

func (p *TextPost) Detail() Params {
	d := p.detail(p.Type())
	d["title"] = optional(p.Title)
	d["body"] = optional(p.Body)
	return d
}

func (p *TextPost) MarshalJSON() ([]byte, error) {
	type alias TextPost
	return marshalTyped(p.Type(), (*alias)(p))
}

// QuotePost is a post of type "quote".
type QuotePost struct {
	PostBase
	Text   string `json:"text"`
	Source string `json:"source"`
}

func (p *QuotePost) Type() PostType { return TypeQuote }

func (p *QuotePost) Detail() Params {
	d := p.detail(p.Type())
	d["quote"] = optional(p.Text)
	d["source"] = optional(p.Source)
	return d
}

func (p *QuotePost) MarshalJSON() ([]byte, error) {
	type alias QuotePost
	return marshalTyped(p.Type(), (*alias)(p))
}

// LinkPost is a post of type "link".
type LinkPost struct {
	PostBase
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description string  `json:"description"`
	LinkAuthor  string  `json:"link_author,omitempty"`
	Excerpt     string  `json:"excerpt,omitempty"`
	Publisher   string  `json:"publisher,omitempty"`
	Photos      []Photo `json:"photos,omitempty"`
}

func (p *LinkPost) Type() PostType { return TypeLink }

func (p *LinkPost) Detail() Params {
	d := p.detail(p.Type())
	d["title"] = optional(p.Title)
	d["url"] = optional(p.URL)
	d["description"] = optional(p.Description)
	return d
}

func (p *LinkPost) MarshalJSON() ([]byte, error) {
	type alias LinkPost
	return marshalTyped(p.Type(), (*alias)(p))
}

// Dialogue is one line of a chat post.
type Dialogue struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Phrase string `json:"phrase"`
}

// ChatPost is a post of type "chat".
type ChatPost struct {
	PostBase
	Title    string     `json:"title"`
	Body     string     `json:"body"`
	Dialogue []Dialogue `json:"dialogue"`
}

func (p *ChatPost) Type() PostType { return TypeChat }

func (p *ChatPost) Detail() Params {
	d := p.detail(p.Type())
	d["title"] = optional(p.Title)
	d["conversation"] = optional(p.Body)
	return d
}

func (p *ChatPost) MarshalJSON() ([]byte, error) {
	type alias ChatPost
	return marshalTyped(p.Type(), (*alias)(p))
}

// AnswerPost is a post of type "answer".
type AnswerPost struct {
	PostBase
	AskingName string `json:"asking_name"`
	AskingURL  string `json:"asking_url"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

func (p *AnswerPost) Type() PostType { return TypeAnswer }

func (p *AnswerPost) Detail() Params {
	d := p.detail(p.Type())
	d["answer"] = optional(p.Answer)
	return d
}

func (p *AnswerPost) MarshalJSON() ([]byte, error) {
	type alias AnswerPost
	return marshalTyped(p.Type(), (*alias)(p))
}

// PhotoPost is a post of type "photo". Photos holds what the API returned;
// photos to upload are added with AddPhoto.
type PhotoPost struct {
	PostBase
	Caption string  `json:"caption"`
	Link    string  `json:"link_url,omitempty"`
	Width   int     `json:"width,omitempty"`
	Height  int     `json:"height,omitempty"`
	Photos  []Photo `json:"photos"`

	pending []MediaSource
}

func (p *PhotoPost) Type() PostType { return TypePhoto }

// AddPhoto queues a photo for upload. All queued photos must come from the
// same kind of source, and only a single remote source is accepted.
func (p *PhotoPost) AddPhoto(src MediaSource) error {
	if src.IsZero() {
		return fmt.Errorf("add photo: empty media source")
	}
	if len(p.pending) > 0 && (p.pending[0].kind != src.kind || src.IsRemote()) {
		return ErrConflictingMediaSource
	}
	p.pending = append(p.pending, src)
	return nil
}

// PendingPhotos returns the photos queued for upload.
func (p *PhotoPost) PendingPhotos() []MediaSource {
	return p.pending
}

// ClearPhotos drops every queued photo.
func (p *PhotoPost) ClearPhotos() {
	p.pending = nil
}

func (p *PhotoPost) Detail() Params {
	d := p.detail(p.Type())
	d["caption"] = optional(p.Caption)
	d["link"] = optional(p.Link)
	if len(p.pending) == 0 {
		return d
	}
	if p.pending[0].IsRemote() {
		d["source"] = p.pending[0].Remote()
		return d
	}
	for i, src := range p.pending {
		d[fmt.Sprintf("data[%d]", i)] = src.File()
	}
	return d
}

func (p *PhotoPost) MarshalJSON() ([]byte, error) {
	type alias PhotoPost
	return marshalTyped(p.Type(), (*alias)(p))
}

// UnknownPost is a post whose type is missing or not recognised. Only the
// shared attributes are decoded. Partial post references inside a reblog
// trail decode to UnknownPost.
type UnknownPost struct {
	PostBase
	// TypeName is the discriminator as sent, empty when it was missing.
	TypeName string `json:"type,omitempty"`
}

func (p *UnknownPost) Type() PostType { return TypeUnknown }

func (p *UnknownPost) Detail() Params {
	return p.detail(p.Type())
}
