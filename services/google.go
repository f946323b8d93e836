package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var ErrGoogleTokenInvalid = errors.New("google id token rejected")

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier checks Google ID tokens against the tokeninfo endpoint.
type GoogleVerifier struct {
	ClientID   string
	HTTPClient *http.Client
	BaseURL    string // overridable for tests
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		ClientID:   clientID,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    googleTokenInfoURL,
	}
}

type GoogleIdentity struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Audience string `json:"aud"`
	Subject  string `json:"sub"`
}

// VerifyIDToken resolves an ID token to the Google identity it was
// issued for, rejecting tokens minted for a different client id.
func (v *GoogleVerifier) VerifyIDToken(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		v.BaseURL+"?id_token="+url.QueryEscape(idToken), nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrGoogleTokenInvalid
	}
	var id GoogleIdentity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, fmt.Errorf("decode tokeninfo response: %w", err)
	}
	if v.ClientID != "" && id.Audience != v.ClientID {
		return nil, ErrGoogleTokenInvalid
	}
	if id.Email == "" {
		return nil, ErrGoogleTokenInvalid
	}
	return &id, nil
}
