package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/session"
)

// AsyncClient submits frames tagged with a session identifier and polls the
// service for the latest result of that session.
//
// Submit and poll are not correlated: a poll may return the result of an
// older frame than the one just submitted.
type AsyncClient struct {
	opts      Options
	sessionID session.ID
}

var _ Backend = (*AsyncClient)(nil)

// NewAsyncClient creates an asynchronous client for one session.
func NewAsyncClient(opts Options, id session.ID) *AsyncClient {
	opts.applyDefaults()
	return &AsyncClient{opts: opts, sessionID: id}
}

// SessionID returns the identifier the client tags its requests with.
func (c *AsyncClient) SessionID() session.ID {
	return c.sessionID
}

// latestResponse is the JSON body of GET /latest_result/{id}.
type latestResponse struct {
	LatestPrediction *string `json:"latest_prediction"`
}

// SubmitFrame posts the payload to /process_image/{id}. Only the status is
// checked; the body is discarded.
func (c *AsyncClient) SubmitFrame(ctx context.Context, payload []byte) (*landmark.Result, error) {
	u := c.opts.BaseURL + "/process_image/" + url.PathEscape(c.sessionID.String())

	resp, err := postImage(ctx, &c.opts, "submit frame", u, payload)
	if err != nil {
		return nil, err
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	resp.Body.Close()

	return nil, nil
}

// FetchLatestResult polls /latest_result/{id}. A null prediction yields nil.
func (c *AsyncClient) FetchLatestResult(ctx context.Context) (*landmark.Result, error) {
	u := c.opts.BaseURL + "/latest_result/" + url.PathEscape(c.sessionID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch latest result: build request: %w", err)
	}

	resp, err := do(&c.opts, "fetch latest result", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body latestResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if body.LatestPrediction == nil {
		return nil, nil
	}

	return &landmark.Result{Gesture: *body.LatestPrediction}, nil
}

func (c *AsyncClient) Mode() Mode { return ModeAsync }
