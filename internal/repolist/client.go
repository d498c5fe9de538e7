// Package repolist reads an account's public repositories from the GitHub
// REST API and converts them for the portfolio page.
package repolist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/boswecw/boswell/internal/portfolio"
	gh "github.com/google/go-github/v82/github"
	"golang.org/x/oauth2"
)

const defaultPerPage = 100

// RequestError is a non-2xx response from the listing endpoint.
type RequestError struct {
	Account    string
	StatusCode int
	Status     string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("list repositories for %s: %s", e.Account, e.Status)
}

// TransportError is a failure to get any response from the listing endpoint.
type TransportError struct {
	Account string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("list repositories for %s: %v", e.Account, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError is a listing response that could not be converted. Index is the
// offending record's position in the response, or -1 for the body itself.
type ParseError struct {
	Index int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("parse repository list: %v", e.Err)
	}
	return fmt.Sprintf("parse repository %d: missing %s", e.Index, e.Field)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Client lists the public repositories of one fixed account.
type Client struct {
	account    string
	token      string
	baseURL    string
	httpClient *http.Client
	perPage    int
	gh         *gh.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken authenticates requests with a static token, raising the rate limit.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithBaseURL points the client at another API root (tests, GitHub Enterprise).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPerPage sets the page size used when following pagination.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// New creates a client for account.
func New(account string, opts ...Option) (*Client, error) {
	if account == "" {
		return nil, errors.New("account is required")
	}

	c := &Client{account: account, perPage: defaultPerPage}
	for _, opt := range opts {
		opt(c)
	}

	hc := c.httpClient
	if c.token != "" {
		ctx := context.Background()
		if hc != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
		}
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token}))
	}

	client := gh.NewClient(hc)
	if c.baseURL != "" {
		base := c.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		client.BaseURL = u
	}
	c.gh = client

	return c, nil
}

// Account returns the account whose repositories are listed.
func (c *Client) Account() string {
	return c.account
}

// ListRepositories fetches every page of the account's repositories. Any
// record missing id, name, html_url or updated_at fails the whole fetch.
func (c *Client) ListRepositories(ctx context.Context) ([]portfolio.Repository, error) {
	opt := &gh.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: gh.ListOptions{PerPage: c.perPage},
	}

	var out []portfolio.Repository
	for {
		repos, resp, err := c.gh.Repositories.ListByUser(ctx, c.account, opt)
		if err != nil {
			return nil, c.classify(resp, err)
		}

		for _, r := range repos {
			converted, err := convert(r, len(out))
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	if out == nil {
		out = []portfolio.Repository{}
	}
	return out, nil
}

func (c *Client) classify(resp *gh.Response, err error) error {
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return c.requestError(errResp.Response)
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return c.requestError(rateErr.Response)
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return c.requestError(abuseErr.Response)
	}

	if resp != nil && resp.Response != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return c.requestError(resp.Response)
		}
		// a 2xx whose body could not be decoded
		return &ParseError{Index: -1, Err: err}
	}

	return &TransportError{Account: c.account, Err: err}
}

func (c *Client) requestError(resp *http.Response) error {
	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return &RequestError{Account: c.account, StatusCode: resp.StatusCode, Status: status}
}

func convert(r *gh.Repository, index int) (portfolio.Repository, error) {
	if r == nil {
		return portfolio.Repository{}, &ParseError{Index: index, Field: "record"}
	}

	switch {
	case r.ID == nil:
		return portfolio.Repository{}, &ParseError{Index: index, Field: "id"}
	case r.Name == nil:
		return portfolio.Repository{}, &ParseError{Index: index, Field: "name"}
	case r.HTMLURL == nil:
		return portfolio.Repository{}, &ParseError{Index: index, Field: "html_url"}
	case r.UpdatedAt == nil:
		return portfolio.Repository{}, &ParseError{Index: index, Field: "updated_at"}
	}

	return portfolio.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		Description: nonEmpty(r.Description),
		URL:         r.GetHTMLURL(),
		HomepageURL: nonEmpty(r.Homepage),
		Language:    nonEmpty(r.Language),
		StarCount:   r.GetStargazersCount(),
		ForkCount:   r.GetForksCount(),
		UpdatedAt:   r.GetUpdatedAt().Time,
		IsPrivate:   r.GetPrivate(),
	}, nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}
