package twilio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/callnote-team/callnote/pkg/config"
)

// Client downloads call recordings from the provider's media API.
type Client struct {
	accountSID string
	authToken  string
	client     *http.Client
}

// NewClient creates a recording downloader using the provided config.
// Pass a nil config to fall back to environment variables.
func NewClient(cfg *config.TwilioConfig) *Client {
	var sid, token string
	if cfg != nil {
		sid = cfg.AccountSID
		token = cfg.AuthToken
	}
	if sid == "" {
		sid = os.Getenv("TWILIO_ACCOUNT_SID")
	}
	if token == "" {
		token = os.Getenv("TWILIO_AUTH_TOKEN")
	}
	return &Client{
		accountSID: sid,
		authToken:  token,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

var audioMimeTypes = map[string]string{
	".mp3": "audio/mpeg",
	".m4a": "audio/mp4",
	".wav": "audio/wav",
}

// Download fetches the raw audio bytes for a recording reference and
// returns them with their mime type. Remote references request the mp3
// rendition; the compressed container keeps the base64 payload small.
// A non-URL reference is treated as a local file path (dev/test).
func (c *Client) Download(ctx context.Context, reference string) ([]byte, string, error) {
	if !strings.HasPrefix(reference, "http://") && !strings.HasPrefix(reference, "https://") {
		return readLocalFile(reference)
	}

	url := reference
	if _, ok := audioMimeTypes[path.Ext(url)]; !ok {
		// Twilio recording URLs carry no extension; the suffix selects
		// the media format.
		url += ".mp3"
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, "", err
	}
	if c.accountSID != "" {
		req.SetBasicAuth(c.accountSID, c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("recording fetch returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return audio, "audio/mpeg", nil
}

func readLocalFile(reference string) ([]byte, string, error) {
	p := strings.TrimPrefix(reference, "file://")
	audio, err := os.ReadFile(p)
	if err != nil {
		return nil, "", err
	}
	mime, ok := audioMimeTypes[path.Ext(p)]
	if !ok {
		mime = "audio/mpeg"
	}
	return audio, mime, nil
}
