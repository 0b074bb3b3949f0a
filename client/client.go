package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/goware/urlx"
	"github.com/pkg/errors"

	"github.com/relaygate/relay/api"
)

// OrgHeader carries the tenant scope of a request: the organization id the
// call should be scoped to. Requests without it are personal-workspace scoped.
const OrgHeader = "X-Relay-Org"

const requestTimeout = 30 * time.Second

// Client is a Relay HTTP client. It is the single choke-point for backend
// calls: every request attaches the bearer credential and, when an
// organization context is set, the tenant header.
type Client struct {
	baseURL url.URL
	http    *retryablehttp.Client

	mu    sync.RWMutex
	token string
	orgID string
}

// NewClient creates a new Relay client bound to a single user credential.
func NewClient(address string, token string) (*Client, error) {
	u, err := urlx.ParseWithDefaultScheme(address, "https")
	if err != nil {
		return nil, err
	}

	if u.Path != "" || u.Opaque != "" || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return nil, errors.New("address must be base server address in the form [scheme://]host[:port]")
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.HTTPClient.Timeout = requestTimeout
	rc.RetryMax = 2
	rc.Logger = nil

	return &Client{baseURL: *u, http: rc, token: token}, nil
}

// Address returns a client's host and port.
func (c *Client) Address() string {
	return c.baseURL.String()
}

// SetToken replaces the bearer credential used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the bearer credential in use. SignIn, SignUp and
// ExchangeSSOCode replace it on success.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetOrganizationContext scopes all subsequent requests to the given
// organization until cleared.
func (c *Client) SetOrganizationContext(orgID string) {
	c.mu.Lock()
	c.orgID = orgID
	c.mu.Unlock()
}

// ClearOrganizationContext removes the tenant scope; subsequent requests are
// personal-workspace scoped.
func (c *Client) ClearOrganizationContext() {
	c.mu.Lock()
	c.orgID = ""
	c.mu.Unlock()
}

// OrganizationContext returns the organization id requests are currently
// scoped to, or "" for the personal workspace.
func (c *Client) OrganizationContext() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.orgID
}

func (c *Client) sendRequest(
	ctx context.Context,
	method string,
	path string,
	query map[string]string,
	body interface{},
) (*http.Response, error) {
	b := new(bytes.Buffer)
	if body != nil {
		if err := json.NewEncoder(b).Encode(body); err != nil {
			return nil, err
		}
	}

	var q url.Values
	if len(query) != 0 {
		q = url.Values{}
		for k, v := range query {
			q.Add(k, v)
		}
	}

	u := url.URL{Scheme: c.baseURL.Scheme, Host: c.baseURL.Host, Path: path, RawQuery: q.Encode()}
	req, err := retryablehttp.NewRequest(method, u.String(), b.Bytes())
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	// Credential and tenant header are read at send time so a request always
	// reflects the organization context current when it is issued.
	c.mu.RLock()
	if len(c.token) > 0 {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if len(c.orgID) > 0 {
		req.Header.Set(OrgHeader, c.orgID)
	}
	c.mu.RUnlock()

	return c.http.Do(req.WithContext(ctx))
}

// errorFromResponse creates an error from an HTTP response, or nil on success.
func errorFromResponse(resp *http.Response) error {
	// Anything less than 400 isn't an error, so don't produce one.
	if resp.StatusCode < 400 {
		return nil
	}

	bytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Errorf("failed to read response: %v", err)
	}

	var apiErr api.Error
	if err := json.Unmarshal(bytes, &apiErr); err != nil {
		return errors.Errorf("failed to parse response: %v", err)
	}
	if apiErr.Code == 0 {
		apiErr.Code = resp.StatusCode
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}

// parseResponse parses the response body and stores the result in the given
// value. The value parameter should be a pointer to the desired structure.
func parseResponse(resp *http.Response, value interface{}) error {
	if err := errorFromResponse(resp); err != nil {
		return err
	}
	if value == nil {
		return nil
	}

	bytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(bytes, value)
}

// safeClose closes an object while safely handling nils.
func safeClose(closer io.Closer) {
	if closer == nil {
		return
	}
	_ = closer.Close()
}
