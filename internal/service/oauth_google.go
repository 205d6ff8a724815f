package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const googleUserInfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleOAuthClient exchanges a client-supplied Google access token for the
// provider's userinfo record.
type GoogleOAuthClient struct {
	Endpoint   string
	HTTPClient *http.Client
}

func NewGoogleOAuthClient() *GoogleOAuthClient {
	return &GoogleOAuthClient{
		Endpoint:   googleUserInfoEndpoint,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (c *GoogleOAuthClient) FetchUserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error) {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = googleUserInfoEndpoint
	}
	requestURL := fmt.Sprintf("%s?access_token=%s", endpoint, url.QueryEscape(accessToken))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	if info.ID == "" || info.Email == "" {
		return nil, fmt.Errorf("google userinfo response missing id or email")
	}

	return &OAuthUserInfo{
		ProviderID: info.ID,
		Email:      info.Email,
		Name:       info.Name,
		Picture:    info.Picture,
		Raw:        body,
	}, nil
}
