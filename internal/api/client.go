package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const maxErrorBody = 4 * 1024

// Client talks to the battleship REST API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	cookies []*http.Cookie
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout <= 0 {
			return
		}
		clone := *c.http
		clone.Timeout = timeout
		c.http = &clone
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q must be http or https", baseURL)
	}
	c := &Client{
		baseURL: parsed,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithCookies returns a copy of c that sends cookies on every request. The
// receiver is left untouched so one Client can serve many browser sessions.
func (c *Client) WithCookies(cookies []*http.Cookie) *Client {
	clone := *c
	clone.cookies = append([]*http.Cookie(nil), cookies...)
	return &clone
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) ListGames(ctx context.Context, state string) (GameList, error) {
	query := url.Values{}
	if state != "" {
		query.Set("state", state)
	}
	var games GameList
	if _, err := c.do(ctx, http.MethodGet, "/games", query, nil, &games); err != nil {
		return nil, err
	}
	if games == nil {
		games = GameList{}
	}
	return games, nil
}

func (c *Client) GetGame(ctx context.Context, id string) (Game, error) {
	var game Game
	if _, err := c.do(ctx, http.MethodGet, "/games/"+url.PathEscape(id), nil, nil, &game); err != nil {
		return Game{}, err
	}
	return game, nil
}

// Scoreboard fetches the ranked player list. A ranking of zero or less asks
// for every player.
func (c *Client) Scoreboard(ctx context.Context, ranking int) (Scoreboard, error) {
	query := url.Values{}
	if ranking > 0 {
		query.Set("ranking", strconv.Itoa(ranking))
	}
	var board Scoreboard
	if _, err := c.do(ctx, http.MethodGet, "/players", query, nil, &board); err != nil {
		return nil, err
	}
	if board == nil {
		board = Scoreboard{}
	}
	return board, nil
}

func (c *Client) Version(ctx context.Context) (VersionInfo, error) {
	var info VersionInfo
	if _, err := c.do(ctx, http.MethodGet, "/version", nil, nil, &info); err != nil {
		return VersionInfo{}, err
	}
	return info, nil
}

// Login posts the credentials and returns the cookies the backend set on
// success. The response body is ignored.
func (c *Client) Login(ctx context.Context, creds Credentials) ([]*http.Cookie, error) {
	resp, err := c.do(ctx, http.MethodPost, "/login", nil, creds, nil)
	if err != nil {
		return nil, err
	}
	return resp.Cookies(), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, dest any) (*http.Response, error) {
	target := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}
	endpoint := target.String()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Method: method, URL: endpoint, Err: err}
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &TransportError{Method: method, URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ResponseError{
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty response body")
		}
		return nil, &TransportError{Method: method, URL: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	return resp, nil
}

func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var parsed errorBody
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(data))
}
