package facebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quyetngv/bds-backend/pkg/config"
	"github.com/quyetngv/bds-backend/pkg/logger"
)

const (
	requestTimeout = 15 * time.Second

	// UnknownError is reported when the Graph API response carries no
	// parseable error message.
	UnknownError = "unknown_error"
)

var errGroupIDRequired = errors.New("group id is required")

// Client posts to the Facebook Graph API with a page/user access token.
// A client without a token is still valid; callers check HasToken before
// dispatching so a missing credential degrades instead of crashing.
type Client struct {
	httpClient *http.Client
	baseURL    string
	version    string
	token      string
	logger     *logger.Logger
}

// NewClient initializes the Graph API wrapper.
func NewClient(ctx context.Context, cfg config.FacebookConfig, logg *logger.Logger) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimRight(cfg.GraphBaseURL, "/"),
		version:    cfg.GraphVersion,
		token:      strings.TrimSpace(cfg.AccessToken),
		logger:     logg,
	}

	if logg != nil {
		if c.HasToken() {
			logg.Info(ctx, "facebook client initialized")
		} else {
			logg.Warn(ctx, "facebook client initialized without access token")
		}
	}
	return c
}

// HasToken reports whether a Graph API credential is configured.
func (c *Client) HasToken() bool {
	return c != nil && c.token != ""
}

type feedResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// PostToGroupFeed publishes a message to the named group's feed and returns
// the created post id. Errors carry the provider's message when one exists.
func (c *Client) PostToGroupFeed(ctx context.Context, groupID, message string) (string, error) {
	if strings.TrimSpace(groupID) == "" {
		return "", errGroupIDRequired
	}

	endpoint := fmt.Sprintf("%s/%s/%s/feed", c.baseURL, c.version, url.PathEscape(groupID))
	form := url.Values{}
	form.Set("message", message)
	form.Set("access_token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && c.logger != nil {
			c.logger.Warn(ctx, "closing graph response body failed")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var decoded feedResponse
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.New(extractErrorMessage(body))
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", errors.New(UnknownError)
	}
	if decoded.ID == "" {
		return "", errors.New(UnknownError)
	}
	return decoded.ID, nil
}

// extractErrorMessage pulls the Graph error message out of a failed response
// body, falling back to UnknownError when none is present.
func extractErrorMessage(body []byte) string {
	var decoded feedResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return UnknownError
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return decoded.Error.Message
	}
	return UnknownError
}
