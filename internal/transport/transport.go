// Package transport exchanges captured frames with the remote gesture
// inference service.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/landmark"
)

// Mode selects the protocol shape spoken with the inference service.
type Mode string

const (
	// ModeSync posts a frame and reads the result from the same response.
	ModeSync Mode = "sync"
	// ModeAsync posts frames tagged with a session and polls for the latest
	// result separately.
	ModeAsync Mode = "async"
)

// Defaults for Options.
const (
	DefaultFieldName   = "image"
	DefaultFileName    = "image.jpg"
	DefaultContentType = "image/jpeg"
	DefaultTimeout     = 5 * time.Second

	maxResponseBytes = 1 << 20
)

// ErrDecode wraps malformed response bodies.
var ErrDecode = errors.New("decode response")

// Error is returned for any non-2xx response.
type Error struct {
	Op         string
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: unexpected HTTP status %d", e.Op, e.StatusCode)
}

// Backend is one protocol variant. The streaming loop only talks to this
// interface so it does not care which variant is configured.
type Backend interface {
	// SubmitFrame sends an encoded frame. The synchronous variant returns the
	// result; the asynchronous one returns nil once the frame was accepted.
	SubmitFrame(ctx context.Context, payload []byte) (*landmark.Result, error)

	// FetchLatestResult returns the most recent result computed for this
	// client, or nil if there is none yet. It is a no-op for the
	// synchronous variant.
	FetchLatestResult(ctx context.Context) (*landmark.Result, error)

	Mode() Mode
}

// Options configures the HTTP clients.
type Options struct {
	// BaseURL is the root of the inference service, e.g. http://localhost:8000.
	BaseURL     string
	FieldName   string
	FileName    string
	ContentType string
	// Timeout bounds every request. HTTPClient, when set, takes precedence.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func (o *Options) applyDefaults() {
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.FieldName == "" {
		o.FieldName = DefaultFieldName
	}
	if o.FileName == "" {
		o.FileName = DefaultFileName
	}
	if o.ContentType == "" {
		o.ContentType = DefaultContentType
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: o.Timeout}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// postImage sends payload as the single file field of a multipart form and
// returns the response for a 2xx status. The caller closes the body.
func postImage(ctx context.Context, o *Options, op, url string, payload []byte) (*http.Response, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, o.FieldName, o.FileName))
	header.Set("Content-Type", o.ContentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("%s: create form part: %w", op, err)
	}
	if _, err := part.Write(payload); err != nil {
		return nil, fmt.Errorf("%s: write form part: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s: close form: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return do(o, op, req)
}

func do(o *Options, op string, req *http.Request) (*http.Response, error) {
	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		return nil, &Error{Op: op, StatusCode: resp.StatusCode}
	}
	return resp, nil
}
