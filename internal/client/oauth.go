/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"osiri-api/config"
	"osiri-api/internal/constants"
	"osiri-api/internal/platform"
)

// SlackOAuthClient exchanges a Slack authorization code for workspace and
// channel identifiers via oauth.v2.access.
type SlackOAuthClient struct {
	app        config.OAuthApp
	httpClient *RetryableHTTPClient
}

// NewSlackOAuthClient creates a Slack OAuth exchange client
func NewSlackOAuthClient(cfg *config.OAuth) *SlackOAuthClient {
	return &SlackOAuthClient{
		app:        cfg.Slack,
		httpClient: NewRetryableHTTPClient(cfg.ExchangeRetries, time.Duration(cfg.ExchangeTimeout)*time.Second),
	}
}

type slackTokenResponse struct {
	OK          bool   `json:"ok"`
	Error       string `json:"error"`
	AccessToken string `json:"access_token"`
	Team        struct {
		ID string `json:"id"`
	} `json:"team"`
	IncomingWebhook struct {
		ChannelID string `json:"channel_id"`
	} `json:"incoming_webhook"`
}

// ExchangeCode implements platform.Exchanger for Slack.
func (c *SlackOAuthClient) ExchangeCode(ctx context.Context, code string) (*platform.Connection, error) {
	form := url.Values{}
	form.Set("client_id", c.app.ClientID)
	form.Set("client_secret", c.app.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", c.app.RedirectURI)

	body, err := postForm(ctx, c.httpClient, constants.SlackTokenURL, form)
	if err != nil {
		return nil, err
	}

	var resp slackTokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed slack response: %v", constants.ErrOAuthExchangeFailed, err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("%w: slack error %q", constants.ErrOAuthExchangeFailed, resp.Error)
	}

	return &platform.Connection{
		WorkspaceID: resp.Team.ID,
		ChannelID:   resp.IncomingWebhook.ChannelID,
		AccessToken: resp.AccessToken,
	}, nil
}

// DiscordOAuthClient exchanges a Discord authorization code for guild and
// webhook channel identifiers.
type DiscordOAuthClient struct {
	app        config.OAuthApp
	httpClient *RetryableHTTPClient
}

// NewDiscordOAuthClient creates a Discord OAuth exchange client
func NewDiscordOAuthClient(cfg *config.OAuth) *DiscordOAuthClient {
	return &DiscordOAuthClient{
		app:        cfg.Discord,
		httpClient: NewRetryableHTTPClient(cfg.ExchangeRetries, time.Duration(cfg.ExchangeTimeout)*time.Second),
	}
}

type discordTokenResponse struct {
	AccessToken string `json:"access_token"`
	Guild       struct {
		ID string `json:"id"`
	} `json:"guild"`
	Webhook struct {
		ChannelID string `json:"channel_id"`
	} `json:"webhook"`
}

// ExchangeCode implements platform.Exchanger for Discord.
func (c *DiscordOAuthClient) ExchangeCode(ctx context.Context, code string) (*platform.Connection, error) {
	form := url.Values{}
	form.Set("client_id", c.app.ClientID)
	form.Set("client_secret", c.app.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.app.RedirectURI)

	body, err := postForm(ctx, c.httpClient, constants.DiscordTokenURL, form)
	if err != nil {
		return nil, err
	}

	var resp discordTokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed discord response: %v", constants.ErrOAuthExchangeFailed, err)
	}
	if resp.Guild.ID == "" {
		return nil, fmt.Errorf("%w: discord response missing guild", constants.ErrOAuthExchangeFailed)
	}

	return &platform.Connection{
		WorkspaceID: resp.Guild.ID,
		ChannelID:   resp.Webhook.ChannelID,
		AccessToken: resp.AccessToken,
	}, nil
}

// postForm posts a URL-encoded form and returns the body of a 2xx response.
func postForm(ctx context.Context, httpClient *RetryableHTTPClient, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrOAuthExchangeFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrOAuthExchangeFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrOAuthExchangeFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", constants.ErrOAuthExchangeFailed, resp.StatusCode)
	}

	return body, nil
}
