package tumblr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/h2non/filetype"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Params are query or body parameters. Values are stringified with
// fmt.Sprint; nil values are skipped. A File value is sent as a file part
// by PostMultipart and skipped by Get and Post.
type Params map[string]any

// File is the path of a local file to upload.
type File string

func (p Params) clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func (p Params) sortedKeys() []string {
	keys := lo.Keys(p)
	sort.Strings(keys)
	return keys
}

// values returns the stringified scalar parameters.
func (p Params) values() map[string]string {
	scalars := lo.PickBy(p, func(_ string, v any) bool {
		if v == nil {
			return false
		}
		_, isFile := v.(File)
		return !isFile
	})
	return lo.MapValues(scalars, func(v any, _ string) string {
		return fmt.Sprint(v)
	})
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipart encodes p as multipart/form-data. Every file is read before
// anything is written, so an unreadable file fails without a partial body.
func (p Params) multipart() ([]byte, string, error) {
	keys := p.sortedKeys()
	contents := map[string][]byte{}
	for _, k := range keys {
		f, ok := p[k].(File)
		if !ok {
			continue
		}
		data, err := os.ReadFile(string(f))
		if err != nil {
			return nil, "", &FileError{Param: k, Path: string(f), Err: err}
		}
		contents[k] = data
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, k := range keys {
		switch v := p[k].(type) {
		case nil:
			continue
		case File:
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
				quoteEscaper.Replace(k), quoteEscaper.Replace(filepath.Base(string(v)))))
			h.Set("Content-Type", detectContentType(contents[k]))
			part, err := w.CreatePart(h)
			if err != nil {
				return nil, "", err
			}
			if _, err := part.Write(contents[k]); err != nil {
				return nil, "", err
			}
		default:
			if err := w.WriteField(k, fmt.Sprint(v)); err != nil {
				return nil, "", err
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func detectContentType(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "application/octet-stream"
	}
	return kind.MIME.Value
}

func (c *Client) url(path string) string {
	return "https://" + c.Hostname() + apiVersionPrefix + path
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *Client) newRequest(ctx context.Context, follow bool) (*resty.Request, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	rc := c.rest
	if !follow {
		rc = c.noRedirect
	}
	c.mu.RUnlock()
	return rc.R().SetContext(ctx), nil
}

// Get sends a GET to /v2<path> with params as the query string.
func (c *Client) Get(ctx context.Context, path string, params Params) (*Envelope, error) {
	req, err := c.newRequest(ctx, true)
	if err != nil {
		return nil, err
	}
	resp, err := req.SetQueryParams(params.values()).Get(c.url(path))
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return c.clear(resp, "get "+path)
}

// Post sends a form encoded POST. File and nil values are left out.
func (c *Client) Post(ctx context.Context, path string, params Params) (*Envelope, error) {
	req, err := c.newRequest(ctx, true)
	if err != nil {
		return nil, err
	}
	resp, err := req.SetFormData(params.values()).Post(c.url(path))
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	return c.clear(resp, "post "+path)
}

// PostMultipart sends a multipart/form-data POST. File values become file
// parts. If a file cannot be read a *FileError is returned and nothing is
// sent.
//
// The signature is the one the same request would carry form encoded: it
// covers the scalar parameters and leaves the files out.
func (c *Client) PostMultipart(ctx context.Context, path string, params Params) (*Envelope, error) {
	body, contentType, err := params.multipart()
	if err != nil {
		return nil, err
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	rc, config, token := c.unsigned, c.oauth, c.token
	c.mu.RUnlock()

	req := rc.R().SetContext(ctx)
	if token != nil {
		auth, err := signForm(ctx, config, token, c.url(path), params.values())
		if err != nil {
			return nil, err
		}
		req.SetHeader("Authorization", auth)
	}
	resp, err := req.SetHeader("Content-Type", contentType).SetBody(body).Post(c.url(path))
	if err != nil {
		return nil, fmt.Errorf("post multipart %s: %w", path, err)
	}
	return c.clear(resp, "post multipart "+path)
}

// RedirectURL sends a signed GET without following redirects and returns
// the Location of a 301/302 response. Any other status is an *APIError
// wrapping ErrUnexpectedResponse.
func (c *Client) RedirectURL(ctx context.Context, path string) (string, error) {
	req, err := c.newRequest(ctx, false)
	if err != nil {
		return "", err
	}
	resp, err := req.Get(c.url(path))
	if err != nil {
		return "", fmt.Errorf("get redirect %s: %w", path, err)
	}
	c.setRateLimits(ParseRateLimits(resp.Header()))
	c.logResponse(resp, "redirect "+path)

	switch resp.StatusCode() {
	case http.StatusMovedPermanently, http.StatusFound:
		return resp.Header().Get("Location"), nil
	}
	return "", newAPIError(resp, ErrUnexpectedResponse)
}

// clear records rate limits and turns a response into an envelope.
func (c *Client) clear(resp *resty.Response, action string) (*Envelope, error) {
	c.setRateLimits(ParseRateLimits(resp.Header()))
	c.logResponse(resp, action)

	if code := resp.StatusCode(); code != http.StatusOK && code != http.StatusCreated {
		return nil, newAPIError(resp, nil)
	}
	env, err := parseEnvelope(resp.Body())
	if err != nil {
		return nil, newAPIError(resp, err)
	}
	env.client = c
	return env, nil
}

func (c *Client) logResponse(resp *resty.Response, action string) {
	c.log.WithFields(logrus.Fields{
		"action": action,
		"code":   resp.StatusCode(),
	}).Debugf("response: %s\n", string(resp.Body()))
}

func newAPIError(resp *resty.Response, err error) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode(),
		Body:       string(resp.Body()),
		Message:    parseErrorResponse(resp.Body()),
		Err:        err,
	}
}

// parseErrorResponse pulls a readable message out of an error body, or
// returns "" when the body has none.
func parseErrorResponse(body []byte) string {
	var ret struct {
		Meta   Meta `json:"meta"`
		Errors []struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &ret); err != nil {
		return ""
	}
	parts := []string{}
	if ret.Meta.Msg != "" {
		parts = append(parts, ret.Meta.Msg)
	}
	for _, e := range ret.Errors {
		parts = append(parts, lo.Ternary(e.Detail != "", e.Detail, e.Title))
	}
	return strings.Join(lo.Filter(parts, func(s string, _ int) bool { return s != "" }), "; ")
}
