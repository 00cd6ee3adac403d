package tumblr

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var postFactories = map[PostType]func() Post{
	TypeText:   func() Post { return &TextPost{} },
	TypePhoto:  func() Post { return &PhotoPost{} },
	TypeQuote:  func() Post { return &QuotePost{} },
	TypeLink:   func() Post { return &LinkPost{} },
	TypeChat:   func() Post { return &ChatPost{} },
	TypeAudio:  func() Post { return &AudioPost{} },
	TypeVideo:  func() Post { return &VideoPost{} },
	TypeAnswer: func() Post { return &AnswerPost{} },
}

// PostTypes returns the discriminators that decode to a dedicated variant.
func PostTypes() []PostType {
	types := lo.Keys(postFactories)
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Diagnostic records a non-fatal decoding problem.
type Diagnostic struct {
	Message  string
	TypeName string
	PostID   NullInt64
}

// NewPost returns an empty post of the given type, or nil for types that
// have no dedicated variant.
func NewPost(t PostType) Post {
	factory, ok := postFactories[PostType(strings.ToLower(string(t)))]
	if !ok {
		return nil
	}
	return factory()
}

// DecodePost decodes one post object into its variant. Unknown types are
// logged and decoded as *UnknownPost.
func DecodePost(data []byte) (Post, error) {
	return decodePost(data, func(d Diagnostic) {
		logUnknownType(Logger, d)
	})
}

func decodePost(data []byte, onUnknown func(Diagnostic)) (Post, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &MalformedPostError{Message: "expected a JSON object", Err: err}
	}
	if fields == nil {
		return nil, &MalformedPostError{Message: "expected a JSON object, got null"}
	}

	// a missing type is a partial reference, e.g. inside a reblog trail
	var (
		post     Post = &UnknownPost{}
		unknown  bool
		typeName string
	)
	if rawType, ok := fields["type"]; ok {
		if err := json.Unmarshal(rawType, &typeName); err != nil {
			return nil, &MalformedPostError{Message: "type is not a string", Err: err}
		}
		if factory, ok := postFactories[PostType(strings.ToLower(typeName))]; ok {
			post = factory()
		} else {
			unknown = true
		}
	}

	if err := json.Unmarshal(data, post); err != nil {
		return nil, &MalformedPostError{Err: err}
	}
	post.Base().normalize()

	if unknown && onUnknown != nil {
		onUnknown(Diagnostic{
			Message:  "deserialized post for unknown type",
			TypeName: typeName,
			PostID:   post.Base().ID,
		})
	}
	return post, nil
}

// decodePosts decodes an array of post objects. One malformed element fails
// the whole list.
func decodePosts(data json.RawMessage, onUnknown func(Diagnostic)) ([]Post, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	posts := make([]Post, 0, len(raws))
	for _, raw := range raws {
		p, err := decodePost(raw, onUnknown)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func logUnknownType(log *logrus.Logger, d Diagnostic) {
	log.WithFields(logrus.Fields{
		"type": d.TypeName,
		"id":   d.PostID.String(),
	}).Warnln(d.Message)
}
