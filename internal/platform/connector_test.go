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

package platform

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"osiri-api/config"
	"osiri-api/internal/constants"
)

type stubExchanger struct {
	conn *Connection
}

func (s *stubExchanger) ExchangeCode(ctx context.Context, code string) (*Connection, error) {
	return s.conn, nil
}

func testFactory() *Factory {
	oauth := &config.OAuth{
		Slack:   config.OAuthApp{ClientID: "slack-client", RedirectURI: "https://app.example.com/callback"},
		Discord: config.OAuthApp{ClientID: "discord-client", RedirectURI: "https://app.example.com/callback"},
	}
	return NewFactory(oauth,
		&stubExchanger{conn: &Connection{WorkspaceID: "T1", ChannelID: "C1"}},
		&stubExchanger{conn: &Connection{WorkspaceID: "G1", ChannelID: "C2"}})
}

func TestFactorySelectsConnector(t *testing.T) {
	f := testFactory()

	for _, name := range []string{constants.PlatformSlack, constants.PlatformDiscord, constants.PlatformEmail} {
		conn, err := f.Connector(name)
		if err != nil {
			t.Fatalf("Connector(%s) failed: %v", name, err)
		}
		if conn.Platform() != name {
			t.Errorf("Connector(%s) returned platform %q", name, conn.Platform())
		}
	}

	if _, err := f.Connector("telegram"); !errors.Is(err, constants.ErrInvalidPlatform) {
		t.Errorf("expected ErrInvalidPlatform for unknown platform, got %v", err)
	}
}

func TestSlackAuthorizeURL(t *testing.T) {
	f := testFactory()
	conn, _ := f.Connector(constants.PlatformSlack)

	raw := conn.AuthorizeURL(AuthorizeParams{Language: "ja", UserID: "user-1"})
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("authorize URL does not parse: %v", err)
	}
	if !strings.HasPrefix(raw, constants.SlackAuthorizeURL) {
		t.Errorf("unexpected authorize endpoint: %s", raw)
	}

	q := u.Query()
	if q.Get("client_id") != "slack-client" {
		t.Errorf("missing client_id, got %q", q.Get("client_id"))
	}
	if q.Get("scope") != constants.SlackBotScopes {
		t.Errorf("unexpected scope %q", q.Get("scope"))
	}

	redirect, err := url.Parse(q.Get("redirect_uri"))
	if err != nil {
		t.Fatalf("redirect_uri does not parse: %v", err)
	}
	rq := redirect.Query()
	if rq.Get("lang") != "ja" || rq.Get("user") != "user-1" {
		t.Errorf("redirect target missing session params: %s", q.Get("redirect_uri"))
	}
}

func TestDiscordAuthorizeURL(t *testing.T) {
	f := testFactory()
	conn, _ := f.Connector(constants.PlatformDiscord)

	raw := conn.AuthorizeURL(AuthorizeParams{Language: "en"})
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("authorize URL does not parse: %v", err)
	}
	if !strings.HasPrefix(raw, constants.DiscordAuthorizeURL) {
		t.Errorf("unexpected authorize endpoint: %s", raw)
	}

	q := u.Query()
	if q.Get("scope") != "bot webhook.incoming" {
		t.Errorf("unexpected scope %q", q.Get("scope"))
	}
	if q.Get("permissions") != constants.DiscordPermissions {
		t.Errorf("unexpected permissions %q", q.Get("permissions"))
	}
	if q.Get("response_type") != "code" {
		t.Errorf("unexpected response_type %q", q.Get("response_type"))
	}
}

func TestEmailConnector(t *testing.T) {
	f := testFactory()
	conn, _ := f.Connector(constants.PlatformEmail)

	if got := conn.AuthorizeURL(AuthorizeParams{}); got != "" {
		t.Errorf("email must not have an authorize URL, got %q", got)
	}
	if _, err := conn.ExchangeCallback(context.Background(), "code"); !errors.Is(err, constants.ErrInvalidPlatform) {
		t.Errorf("expected ErrInvalidPlatform for email callback, got %v", err)
	}
	if got := conn.DescribeRecipient(Connection{Email: "team@example.com"}); got != "team@example.com" {
		t.Errorf("unexpected recipient %q", got)
	}
}

func TestValidatePending(t *testing.T) {
	f := testFactory()

	tests := []struct {
		name     string
		platform string
		conn     Connection
		wantErr  error
	}{
		{name: "slack complete", platform: constants.PlatformSlack, conn: Connection{WorkspaceID: "T1", ChannelID: "C1"}},
		{name: "slack missing channel", platform: constants.PlatformSlack, conn: Connection{WorkspaceID: "T1"},
			wantErr: constants.ErrConnectionIncomplete},
		{name: "discord missing workspace", platform: constants.PlatformDiscord, conn: Connection{ChannelID: "C1"},
			wantErr: constants.ErrConnectionIncomplete},
		{name: "email valid", platform: constants.PlatformEmail, conn: Connection{Email: "a@b.example"}},
		{name: "email blank", platform: constants.PlatformEmail, conn: Connection{Email: "   "},
			wantErr: constants.ErrEmailRequired},
		{name: "email missing local part", platform: constants.PlatformEmail, conn: Connection{Email: "@b.example"},
			wantErr: constants.ErrEmailRequired},
		{name: "email missing domain", platform: constants.PlatformEmail, conn: Connection{Email: "a@"},
			wantErr: constants.ErrEmailRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := f.Connector(tt.platform)
			if err != nil {
				t.Fatalf("Connector failed: %v", err)
			}
			if err := conn.ValidatePending(tt.conn); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
