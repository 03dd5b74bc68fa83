// Package client is a typed HTTP client for the API. It mirrors the
// server's request and response shapes so callers get structs instead of
// raw JSON.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIError carries the HTTP status and the server's detail message.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d detail=%s", e.Status, e.Detail)
}

// Client talks to a running API server. Zero value is not usable; use New.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken swaps the bearer token, typically after Login or Refresh.
func (c *Client) SetToken(token string) { c.token = token }

// TokenPair is the response of Login and Refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresAt    int64  `json:"expires_at"`
}

// User is the public user shape returned by the server.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	AvatarURL   string    `json:"avatar_url"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Item is the public item shape returned by the server.
type Item struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// List is the paginated envelope for collection endpoints.
type List[T any] struct {
	Data  []T   `json:"data"`
	Count int64 `json:"count"`
}

// Page selects a slice of a collection.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) query() url.Values {
	v := url.Values{}
	if p.Offset > 0 {
		v.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return decode(resp, out)
}

func decode(resp *http.Response, out any) error {
	if resp.StatusCode >= 400 {
		var e struct {
			Detail string `json:"detail"`
		}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err := json.Unmarshal(b, &e); err != nil || e.Detail == "" {
			e.Detail = strings.TrimSpace(string(b))
		}
		return &APIError{Status: resp.StatusCode, Detail: e.Detail}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Login exchanges credentials for a token pair and stores the access token
// on the client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	var pair TokenPair
	err := c.do(ctx, http.MethodPost, "/api/login", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &pair)
	if err != nil {
		return nil, err
	}
	c.token = pair.AccessToken
	return &pair, nil
}

// Refresh exchanges a refresh token for a fresh pair and stores the new
// access token on the client.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair TokenPair
	err := c.do(ctx, http.MethodPost, "/api/refresh", nil, map[string]string{
		"refresh_token": refreshToken,
	}, &pair)
	if err != nil {
		return nil, err
	}
	c.token = pair.AccessToken
	return &pair, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, email, password, fullName string) (*User, error) {
	var u User
	err := c.do(ctx, http.MethodPost, "/api/signup", nil, map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// RecoverPassword requests a password recovery email.
func (c *Client) RecoverPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/password-recovery", nil, map[string]string{
		"email": email,
	}, nil)
}

// ResetPassword sets a new password using a recovery token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/api/password-reset", nil, map[string]string{
		"token":        token,
		"new_password": newPassword,
	}, nil)
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateMeInput holds the profile fields to change; nil fields are left
// untouched.
type UpdateMeInput struct {
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// UpdateMe partially updates the authenticated user's profile.
func (c *Client) UpdateMe(ctx context.Context, in UpdateMeInput) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPatch, "/api/users/me", nil, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UploadAvatar uploads an avatar image for the authenticated user.
func (c *Client) UploadAvatar(ctx context.Context, filename string, r io.Reader) (*User, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/users/me/avatar", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	var u User
	if err := decode(resp, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers lists users. Requires superuser privileges.
func (c *Client) ListUsers(ctx context.Context, p Page) (*List[User], error) {
	var out List[User]
	if err := c.do(ctx, http.MethodGet, "/api/users", p.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUserInput is the admin user-creation payload.
type CreateUserInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
	IsSuperuser bool   `json:"is_superuser,omitempty"`
}

// CreateUser creates a user. Requires superuser privileges.
func (c *Client) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPost, "/api/users", nil, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUser fetches a user by id. Requires superuser privileges.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUserInput holds the admin-editable fields; nil fields are left
// untouched.
type UpdateUserInput struct {
	Email       *string `json:"email,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	Password    *string `json:"password,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsSuperuser *bool   `json:"is_superuser,omitempty"`
}

// UpdateUser partially updates a user. Requires superuser privileges.
func (c *Client) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPatch, "/api/users/"+url.PathEscape(id), nil, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser deletes a user and returns the removed record. Requires
// superuser privileges.
func (c *Client) DeleteUser(ctx context.Context, id string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SearchUsers runs a full-text search over users. Requires superuser
// privileges.
func (c *Client) SearchUsers(ctx context.Context, q string, size int) (*List[map[string]any], error) {
	v := url.Values{}
	v.Set("q", q)
	if size > 0 {
		v.Set("size", strconv.Itoa(size))
	}
	var out List[map[string]any]
	if err := c.do(ctx, http.MethodGet, "/api/users/search", v, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateItemInput is the item-creation payload.
type CreateItemInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// CreateItem creates an item owned by the authenticated user.
func (c *Client) CreateItem(ctx context.Context, in CreateItemInput) (*Item, error) {
	var it Item
	if err := c.do(ctx, http.MethodPost, "/api/items", nil, in, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// GetItem fetches an item by id.
func (c *Client) GetItem(ctx context.Context, id string) (*Item, error) {
	var it Item
	if err := c.do(ctx, http.MethodGet, "/api/items/"+url.PathEscape(id), nil, nil, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// ListItems lists the caller's items, or all items for superusers.
func (c *Client) ListItems(ctx context.Context, p Page) (*List[Item], error) {
	var out List[Item]
	if err := c.do(ctx, http.MethodGet, "/api/items", p.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateItemInput holds the item fields to change; nil fields are left
// untouched.
type UpdateItemInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateItem updates an item the caller owns.
func (c *Client) UpdateItem(ctx context.Context, id string, in UpdateItemInput) (*Item, error) {
	var it Item
	if err := c.do(ctx, http.MethodPut, "/api/items/"+url.PathEscape(id), nil, in, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// DeleteItem deletes an item the caller owns and returns the removed record.
func (c *Client) DeleteItem(ctx context.Context, id string) (*Item, error) {
	var it Item
	if err := c.do(ctx, http.MethodDelete, "/api/items/"+url.PathEscape(id), nil, nil, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// TestEmail asks the server to enqueue a test email. Requires superuser
// privileges.
func (c *Client) TestEmail(ctx context.Context, to string) error {
	return c.do(ctx, http.MethodPost, "/api/utils/test-email", nil, map[string]string{
		"to": to,
	}, nil)
}
