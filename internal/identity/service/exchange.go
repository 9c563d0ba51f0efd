// Package service implements the authorization-code exchange against an
// identity provider's token endpoint.
package service

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

	"coursegate/internal/identity/models"
	"coursegate/internal/identity/provider"
	"coursegate/internal/identity/token"
)

// ErrMissingIDToken reports a provider token response without an id_token
// field. Terminal provider-side failure; the flow must not continue.
var ErrMissingIDToken = errors.New("provider response missing id_token")

// ErrExchangeTimeout reports that the token-exchange round trip exceeded its
// bound. Kept distinct from TokenExchangeError so callers can tell a slow
// provider from a hostile one; both are handled the same way downstream.
var ErrExchangeTimeout = errors.New("token exchange timed out")

// TokenExchangeError wraps a failed exchange call: transport failure or a
// non-success status from the provider. The body snippet is for server logs
// only and must never reach a client response.
type TokenExchangeError struct {
	Provider provider.Name
	Status   int
	Body     string
	cause    error
}

func (e *TokenExchangeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("token exchange with %s failed: %v", e.Provider, e.cause)
	}
	return fmt.Sprintf("token exchange with %s failed: status %d: %s", e.Provider, e.Status, e.Body)
}

func (e *TokenExchangeError) Unwrap() error { return e.cause }

// Client exchanges authorization codes for identity profiles.
type Client struct {
	http *http.Client
}

// NewClient builds an exchange client with the given round-trip bound.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// tokenResponse is the subset of the provider's token payload we consume.
type tokenResponse struct {
	IDToken          string `json:"id_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Exchange trades an authorization code for the user's identity profile.
//
// The request explicitly forces uncompressed JSON output (Accept:
// application/json, Accept-Encoding: identity). Some providers otherwise
// return a compressed or oddly typed byte buffer; the response body is always
// read raw and reparsed as UTF-8 text regardless of declared content type.
func (c *Client) Exchange(ctx context.Context, prov *provider.Provider, code string) (models.Profile, error) {
	if code == "" {
		return models.Profile{}, &TokenExchangeError{Provider: prov.Name(), cause: errors.New("empty authorization code")}
	}

	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {prov.RedirectURI()},
		"client_id":     {prov.ClientID()},
		"client_secret": {prov.ClientSecret()},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, prov.TokenEndpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return models.Profile{}, &TokenExchangeError{Provider: prov.Name(), cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	// Setting Accept-Encoding by hand also disables the transport's
	// transparent gzip, so the body we read is exactly what was sent.
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return models.Profile{}, fmt.Errorf("%w: %v", ErrExchangeTimeout, err)
		}
		return models.Profile{}, &TokenExchangeError{Provider: prov.Name(), cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return models.Profile{}, fmt.Errorf("%w: %v", ErrExchangeTimeout, err)
		}
		return models.Profile{}, &TokenExchangeError{Provider: prov.Name(), cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Profile{}, &TokenExchangeError{
			Provider: prov.Name(),
			Status:   resp.StatusCode,
			Body:     snippet(raw),
		}
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return models.Profile{}, &TokenExchangeError{
			Provider: prov.Name(),
			Status:   resp.StatusCode,
			Body:     snippet(raw),
			cause:    err,
		}
	}
	if tr.Error != "" {
		return models.Profile{}, &TokenExchangeError{
			Provider: prov.Name(),
			Status:   resp.StatusCode,
			Body:     tr.Error + ": " + tr.ErrorDescription,
		}
	}
	if tr.IDToken == "" {
		return models.Profile{}, ErrMissingIDToken
	}

	claims, err := token.Decode(tr.IDToken)
	if err != nil {
		return models.Profile{}, err
	}
	return models.ProfileFromClaims(claims), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}

// snippet bounds provider bodies before they land in logs.
func snippet(raw []byte) string {
	const max = 200
	s := string(raw)
	if len(s) > max {
		return s[:max]
	}
	return s
}
