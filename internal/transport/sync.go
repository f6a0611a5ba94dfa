package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ayusman/mudra/internal/landmark"
)

// SyncClient posts a frame to /process_image and decodes the gesture result
// from the response body.
type SyncClient struct {
	opts Options
}

var _ Backend = (*SyncClient)(nil)

// NewSyncClient creates a synchronous client.
func NewSyncClient(opts Options) *SyncClient {
	opts.applyDefaults()
	return &SyncClient{opts: opts}
}

// processResponse is the JSON body of POST /process_image.
type processResponse struct {
	Gesture   string             `json:"gesture"`
	Landmarks []landmark.Point3D `json:"landmarks"`
}

// SubmitFrame sends the payload and returns the decoded result.
func (c *SyncClient) SubmitFrame(ctx context.Context, payload []byte) (*landmark.Result, error) {
	resp, err := postImage(ctx, &c.opts, "process image", c.opts.BaseURL+"/process_image", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body processResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if body.Gesture == "" {
		return nil, fmt.Errorf("%w: missing gesture", ErrDecode)
	}

	result := &landmark.Result{Gesture: body.Gesture}
	if body.Landmarks != nil {
		pose, err := landmark.PoseFromPoints(body.Landmarks)
		if err != nil {
			c.opts.Logger.Warn("discarding landmarks", "gesture", body.Gesture, "error", err)
		} else {
			result.Pose = pose
		}
	}

	return result, nil
}

// FetchLatestResult is a no-op; results arrive with SubmitFrame.
func (c *SyncClient) FetchLatestResult(context.Context) (*landmark.Result, error) {
	return nil, nil
}

func (c *SyncClient) Mode() Mode { return ModeSync }
