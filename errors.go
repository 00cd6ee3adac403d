package tumblr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConflictingMediaSource is returned when a remote source is set on a
	// post that already carries a local file, or the other way round.
	ErrConflictingMediaSource = errors.New("conflicting media source: cannot provide both a file and a remote source")

	// ErrUnexpectedResponse marks a response whose status the caller did not expect.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// ErrNoClient is returned by instance methods of objects that were not
	// produced by a client.
	ErrNoClient = errors.New("object is not attached to a client")
)

// APIError is returned for any response other than 200/201, and for
// successful responses whose body is not a usable envelope.
type APIError struct {
	StatusCode int
	// Body is the raw response body.
	Body string
	// Message is the server supplied message, if one could be found.
	Message string
	Err     error
}

func (e *APIError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "api error: status code %d", e.StatusCode)
	if e.Message != "" {
		fmt.Fprintf(&sb, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ", err: %v", e.Err)
	}
	return sb.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// MalformedEnvelopeError means a projection was called on an envelope that
// does not have the shape the projection expects.
type MalformedEnvelopeError struct {
	// Field is the key the projection looked for. Empty for projections of
	// the whole response value.
	Field    string
	Expected string
	Err      error
}

func (e *MalformedEnvelopeError) Error() string {
	msg := fmt.Sprintf("malformed envelope: expected %s", e.Expected)
	if e.Field != "" {
		msg = fmt.Sprintf("malformed envelope: expected %s at %q", e.Expected, e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedEnvelopeError) Unwrap() error { return e.Err }

// MalformedPostError means a value that should be a post object could not be
// decoded as one.
type MalformedPostError struct {
	Message string
	Err     error
}

func (e *MalformedPostError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return "malformed post: " + msg
}

func (e *MalformedPostError) Unwrap() error { return e.Err }

// MalformedNumberError is returned when a numeric field holds a non-empty
// string that is not an integer.
type MalformedNumberError struct {
	Value string
	Err   error
}

func (e *MalformedNumberError) Error() string {
	return fmt.Sprintf("malformed number %q", e.Value)
}

func (e *MalformedNumberError) Unwrap() error { return e.Err }

// FileError is returned when a file referenced by a multipart parameter
// cannot be read. No request is sent in that case.
type FileError struct {
	Param string
	Path  string
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("reading file %q for parameter %q: %v", e.Path, e.Param, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }
