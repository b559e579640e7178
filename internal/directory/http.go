package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lockdown-service/internal/config"
)

type httpDirectory struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPDirectory creates a Directory backed by the community directory's
// REST API.
func NewHTTPDirectory(cfg config.DirectoryConfig) Directory {
	return &httpDirectory{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		token:   cfg.Token,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: 30 * time.Second,
		},
	}
}

func (d *httpDirectory) GetCommunity(ctx context.Context, communityId string) (*Community, error) {
	var community Community
	if err := d.do(ctx, http.MethodGet, fmt.Sprintf("/communities/%s", communityId), nil, &community); err != nil {
		return nil, err
	}
	return &community, nil
}

func (d *httpDirectory) GetChannels(ctx context.Context, communityId string) ([]Channel, error) {
	var channels []Channel
	if err := d.do(ctx, http.MethodGet, fmt.Sprintf("/communities/%s/channels", communityId), nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (d *httpDirectory) EditRole(ctx context.Context, communityId string, roleId string, permissions Permissions) (*Role, error) {
	body := struct {
		Permissions Permissions `json:"permissions,string"`
	}{Permissions: permissions}

	var role Role
	path := fmt.Sprintf("/communities/%s/roles/%s", communityId, roleId)
	if err := d.do(ctx, http.MethodPatch, path, body, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (d *httpDirectory) EditChannelOverwrites(ctx context.Context, channelId string, overwrites []Overwrite) (*Channel, error) {
	body := struct {
		Overwrites []Overwrite `json:"overwrites"`
	}{Overwrites: overwrites}

	var channel Channel
	path := fmt.Sprintf("/channels/%s/overwrites", channelId)
	if err := d.do(ctx, http.MethodPatch, path, body, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

func (d *httpDirectory) do(ctx context.Context, method string, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("directory request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("directory returned %d for %s %s: %s", resp.StatusCode, method, path, string(msg))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode directory response: %w", err)
		}
	}
	return nil
}
