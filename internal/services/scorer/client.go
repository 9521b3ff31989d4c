// Package scorer is the adapter for the external ML permit verifier.
// The verifier itself is a separate deployment; this package only speaks
// its HTTP contract.
package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"farmtoclick/internal/models"

	"github.com/hashicorp/go-retryablehttp"
)

// Scorer produces a confidence/validity judgment from a permit image, plus
// an optional DTI registration document for cross-checking.
type Scorer interface {
	Score(ctx context.Context, image []byte, filename string, dtiImage []byte) (*ScoreResult, error)
}

type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

// NewClient builds an HTTP scorer client. The verifier call is a single
// attempt with a bounded timeout; failures degrade at the caller, they are
// never retried.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 0
	c.Logger = nil
	c.HTTPClient.Timeout = timeout
	return &Client{baseURL: baseURL, http: c}
}

func (c *Client) Score(ctx context.Context, image []byte, filename string, dtiImage []byte) (*ScoreResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}

	if len(dtiImage) > 0 {
		dtiPart, err := writer.CreateFormFile("dti_image", "dti_"+filename)
		if err != nil {
			return nil, err
		}
		if _, err := dtiPart.Write(dtiImage); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/verify", body.Bytes())
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scorer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result ScoreResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("scorer returned malformed payload: %w", err)
	}

	raw := models.JSON{}
	if err := json.Unmarshal(payload, &raw); err == nil {
		result.Raw = raw
	}
	return &result, nil
}
