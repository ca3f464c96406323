package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const defaultTimeout = 15 * time.Second

// ErrSessionExpired is returned when the access token expired and the
// silent refresh failed, i.e. the user has to log in again.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. "http://localhost:8080".
	BaseURL string
	// Store persists the session across restarts. Defaults to an
	// in-memory store.
	Store SessionStore
	// Timeout bounds every request, refresh round-trips included.
	// Defaults to 15s.
	Timeout time.Duration
	// OnSessionExpired fires once per session loss, after local state
	// has been cleared — the "redirect to login" hook.
	OnSessionExpired func()
}

// Client is the session-managing API client. Safe for concurrent use.
type Client struct {
	baseURL *url.URL
	httpc   *http.Client

	// refreshc shares the cookie jar with httpc but bypasses the auth
	// transport, so a refresh can never recurse into another refresh.
	refreshc *http.Client

	store            SessionStore
	onSessionExpired func()

	mu      sync.Mutex
	session Session
}

// New builds a Client and loads any persisted session from the store.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("apiclient: base url %q must be absolute", opts.BaseURL)
	}

	store := opts.Store
	if store == nil {
		store = NewMemorySessionStore()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	// The jar carries the HTTP-only refresh cookie set by login.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:          base,
		store:            store,
		onSessionExpired: opts.OnSessionExpired,
	}
	c.httpc = &http.Client{
		Jar:       jar,
		Timeout:   timeout,
		Transport: &authTransport{client: c, base: http.DefaultTransport},
	}
	c.refreshc = &http.Client{Jar: jar, Timeout: timeout}

	if persisted, err := store.Load(); err == nil && persisted != nil {
		c.session = *persisted
	}

	return c, nil
}

// Session returns a copy of the current session state.
func (c *Client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Authenticated reports whether an access token is currently held.
func (c *Client) Authenticated() bool {
	return c.Session().AccessToken != ""
}

type RegisterParams struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Register creates a new account. It does not log in.
func (c *Client) Register(ctx context.Context, p RegisterParams) error {
	return c.do(ctx, http.MethodPost, "/auth/register", p, nil, http.StatusCreated)
}

// Login authenticates, stores the returned access token (and the refresh
// cookie, via the jar), then fetches the profile to complete the session.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out, http.StatusOK); err != nil {
		return Session{}, err
	}

	c.setSession(Session{AccessToken: out.AccessToken})

	user, err := c.Profile(ctx)
	if err != nil {
		return Session{}, err
	}
	session := Session{AccessToken: out.AccessToken, User: user}
	c.setSession(session)
	return session, nil
}

// Logout ends the server session and clears local state. Local state is
// cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, http.StatusOK, http.StatusNoContent)
	c.clearSession()
	return err
}

// Refresh forces an access-token refresh using the stored cookie.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	return c.refreshAccessToken(ctx, c.currentAccessToken())
}

// ForgotPassword requests a reset token for the account email. The server
// returns the token directly in the response.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out struct {
		ResetToken string `json:"resetToken"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, &out, http.StatusOK)
	return out.ResetToken, err
}

// ResetPassword consumes a reset token and sets the new password.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	body := map[string]string{"resetToken": resetToken, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", body, nil, http.StatusOK)
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

type UpdateProfileParams struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// UpdateProfile changes the display name and avatar, and refreshes the
// cached user.
func (c *Client) UpdateProfile(ctx context.Context, p UpdateProfileParams) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/auth/profile", p, &user, http.StatusOK); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.session.AccessToken != "" {
		c.session.User = &user
		_ = c.store.Save(&c.session)
	}
	c.mu.Unlock()
	return &user, nil
}

// Post is the client-side view of a blog post.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	AuthorID  string    `json:"author_id"`
	Likes     int64     `json:"likes"`
	Views     int64     `json:"views"`
	CreatedAt time.Time `json:"created_at"`
}

// PostList is one page of the post listing.
type PostList struct {
	Posts      []Post
	Page       int
	TotalPages int
	Total      int64
}

// ListPosts fetches one page of posts, newest first.
func (c *Client) ListPosts(ctx context.Context, page, limit int) (*PostList, error) {
	path := "/posts?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)
	var out struct {
		Data       []Post `json:"data"`
		Pagination struct {
			CurrentPage int   `json:"currentPage"`
			TotalPages  int   `json:"totalPages"`
			TotalPosts  int64 `json:"totalPosts"`
		} `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &PostList{
		Posts:      out.Data,
		Page:       out.Pagination.CurrentPage,
		TotalPages: out.Pagination.TotalPages,
		Total:      out.Pagination.TotalPosts,
	}, nil
}

type CreatePostParams struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary,omitempty"`
	Content string   `json:"content"`
	Image   string   `json:"image,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// CreatePost publishes a new post.
func (c *Client) CreatePost(ctx context.Context, p CreatePostParams) (*Post, error) {
	var out struct {
		Data *Post `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/posts", p, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ── internals ────────────────────────────────────────────────────────────────

func (c *Client) currentAccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.AccessToken
}

func (c *Client) setSession(session Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
	_ = c.store.Save(&c.session)
}

func (c *Client) clearSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = Session{}
	_ = c.store.Clear()
}

// expireSession clears state and fires the expiry hook. Called by the
// transport when a silent refresh fails.
func (c *Client) expireSession() {
	c.clearSession()
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

// refreshAccessToken performs one GET /auth/refresh, coalescing concurrent
// callers: whoever holds the lock refreshes, everyone else reuses the
// token the winner stored.
func (c *Client) refreshAccessToken(ctx context.Context, staleToken string) (string, error) {
	c.mu.Lock()
	if c.session.AccessToken != "" && c.session.AccessToken != staleToken {
		token := c.session.AccessToken
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.JoinPath("/auth/refresh").String(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.refreshc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrSessionExpired
	}

	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", ErrSessionExpired
	}

	c.mu.Lock()
	c.session.AccessToken = out.AccessToken
	_ = c.store.Save(&c.session)
	c.mu.Unlock()
	return out.AccessToken, nil
}

// do performs one JSON round-trip through the auth transport.
func (c *Client) do(ctx context.Context, method, path string, body, out any, expect ...int) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.ResolveReference(ref).String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	for _, code := range expect {
		if resp.StatusCode == code {
			if out == nil || resp.StatusCode == http.StatusNoContent {
				return nil
			}
			return json.NewDecoder(resp.Body).Decode(out)
		}
	}

	return decodeAPIError(resp)
}

func decodeAPIError(resp *http.Response) error {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&envelope); err != nil || envelope.Error == "" {
		envelope.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: envelope.Error}
}
