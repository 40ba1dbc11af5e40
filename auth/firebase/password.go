package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/auth"
)

// SignInEndpoint is the Identity Toolkit REST method that checks an email and password.
const SignInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// PasswordVerifier checks credentials through the Identity Toolkit REST API
// using the project's web API key.
type PasswordVerifier struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewPasswordVerifier creates a verifier. endpoint may be empty to use SignInEndpoint.
func NewPasswordVerifier(apiKey, endpoint string, client *http.Client) *PasswordVerifier {
	if endpoint == "" {
		endpoint = SignInEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &PasswordVerifier{apiKey: apiKey, endpoint: endpoint, client: client}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// Verify returns the provider's tokens. Every non-2xx answer is reported as
// auth.ErrInvalidCredentials so callers cannot tell an unknown email from a
// wrong password.
func (v *PasswordVerifier) Verify(ctx context.Context, email, password string) (*auth.Tokens, error) {
	if v.apiKey == "" {
		return nil, errors.Wrap(auth.ErrProviderUnavailable, "FIREBASE_API_KEY is not set")
	}

	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	u := v.endpoint + "?key=" + url.QueryEscape(v.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "calling identity toolkit")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.WithStack(auth.ErrInvalidCredentials)
	}

	var tokens auth.Tokens
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, errors.Wrap(err, "decoding identity toolkit response")
	}
	return &tokens, nil
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
