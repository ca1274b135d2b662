// Package restapi implements service.Service over the taskwiz REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskwiz/internal/config"
	"taskwiz/internal/errors"
	"taskwiz/internal/service"
	"taskwiz/internal/storage"
)

const (
	// TaskPath is the task resource path.
	TaskPath = "/task"

	signUpPath = "/signup"
	signInPath = "/signin"
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL    string
	authPrefix string
	httpClient *http.Client
	timeout    time.Duration
	log        *slog.Logger
}

// New creates a client for cfg.Server. If a token is stored in the config
// directory, every request carries it as a bearer token.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	token, _, err := cfg.Storage().Get(storage.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	return NewWithHTTPClient(ctx, cfg, BearerClient(ctx, http.DefaultClient, token))
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, cfg *config.Config, httpClient *http.Client) (*Client, error) {
	if cfg.Server == "" {
		return nil, fmt.Errorf("server URL not configured")
	}
	if _, err := url.Parse(cfg.Server); err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    config.NormalizeServer(cfg.Server),
		authPrefix: cfg.AuthPath(),
		httpClient: httpClient,
		timeout:    cfg.RequestTimeout(),
		log:        cfg.Log().With("component", "restapi"),
	}, nil
}

// BearerClient returns an HTTP client that attaches token as a bearer
// credential to every request. An empty token yields base unchanged.
func BearerClient(ctx context.Context, base *http.Client, token string) *http.Client {
	if token == "" {
		return base
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
}

// SignUp implements service.Service.
func (c *Client) SignUp(ctx context.Context, creds service.Credentials) (service.User, error) {
	var user service.User
	if err := c.do(ctx, http.MethodPost, c.authPrefix+signUpPath, nil, creds, &user); err != nil {
		return service.User{}, err
	}
	return user, nil
}

// SignIn implements service.Service.
func (c *Client) SignIn(ctx context.Context, creds service.Credentials) (service.SignInResult, error) {
	var res service.SignInResult
	if err := c.do(ctx, http.MethodPost, c.authPrefix+signInPath, nil, creds, &res); err != nil {
		return service.SignInResult{}, err
	}
	if res.AccessToken == "" {
		return service.SignInResult{}, &errors.Error{Kind: errors.KindServer, Message: "signin response did not include an access token"}
	}
	return res, nil
}

// ListTasks implements service.Service. Empty criteria are not sent.
func (c *Client) ListTasks(ctx context.Context, f service.Filter) ([]service.Task, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, TaskPath, q, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// GetTask implements service.Service.
func (c *Client) GetTask(ctx context.Context, id string) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, nil, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, in service.NewTask) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodPost, TaskPath, nil, in, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTaskStatus implements service.Service.
func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status service.Status) (service.Task, error) {
	body := struct {
		Status service.Status `json:"status"`
	}{status}
	var task service.Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id), nil, body, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil, nil)
}

func taskPath(id string) string {
	return TaskPath + "/" + url.PathEscape(id)
}

// do sends one JSON request and decodes the response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "error", err)
		return wrapError(err)
	}
	defer resp.Body.Close()
	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if err := googleapi.CheckResponse(resp); err != nil {
		return wrapError(err)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return &errors.Error{Kind: errors.KindServer, Message: "invalid response from server", Err: err}
	}
	return nil
}

// errorBody is the error payload returned by the backend. Message may be
// a string or a list of strings (one per failed validation).
type errorBody struct {
	StatusCode int             `json:"statusCode"`
	Message    json.RawMessage `json:"message"`
	Error      json.RawMessage `json:"error"`
}

// wrapError converts transport and HTTP errors into *errors.Error.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = messageFromBody(gerr.Body)
		}
		return &errors.Error{
			Kind:    errors.FromStatus(gerr.Code),
			Message: msg,
			Status:  gerr.Code,
			Err:     err,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Network("request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return errors.Network("request cancelled", err)
	}
	return errors.Network("could not reach server", err)
}

func messageFromBody(body string) string {
	var eb errorBody
	if err := json.Unmarshal([]byte(body), &eb); err != nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(eb.Message, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(eb.Message, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return ""
}
