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

// Package platform gives every delivery platform (slack, discord, email) one
// uniform capability set behind the Connector interface, selected via a
// factory, instead of per-platform branches scattered across the services.
package platform

import (
	"context"

	"osiri-api/config"
	"osiri-api/internal/constants"
)

// Connection holds the workspace/recipient details a platform produces,
// either from an OAuth code exchange or from inline form input (email).
type Connection struct {
	WorkspaceID string
	ChannelID   string
	Email       string
	AccessToken string
}

// AuthorizeParams parameterize the provider authorize URL's redirect-back
// target.
type AuthorizeParams struct {
	Language string
	UserID   string
}

// Exchanger exchanges an OAuth authorization code for connection details.
// Implemented by the HTTP clients in internal/client; replaced by fakes in
// tests.
type Exchanger interface {
	ExchangeCode(ctx context.Context, code string) (*Connection, error)
}

// Connector is the uniform capability set of a delivery platform.
type Connector interface {
	// Platform returns the platform identifier.
	Platform() string

	// AuthorizeURL returns the provider authorize URL to redirect the browser
	// to, or "" for platforms that connect without a provider round-trip.
	AuthorizeURL(p AuthorizeParams) string

	// ExchangeCallback resolves the authorization code the provider redirected
	// back with into connection details.
	ExchangeCallback(ctx context.Context, code string) (*Connection, error)

	// DescribeRecipient returns the delivery recipient identifier recorded on
	// the notification channel: the channel id for chat platforms, the
	// address for email.
	DescribeRecipient(c Connection) string

	// ValidatePending checks that a pending connection carries everything the
	// platform needs before provisioning commits.
	ValidatePending(c Connection) error
}

// Factory selects the connector for a platform identifier.
type Factory struct {
	slack   Connector
	discord Connector
	email   Connector
}

// NewFactory builds the connector set from the OAuth application config.
func NewFactory(cfg *config.OAuth, slackEx, discordEx Exchanger) *Factory {
	return &Factory{
		slack:   &slackConnector{app: cfg.Slack, exchanger: slackEx},
		discord: &discordConnector{app: cfg.Discord, exchanger: discordEx},
		email:   &emailConnector{},
	}
}

// Connector returns the connector for the given platform identifier.
func (f *Factory) Connector(platform string) (Connector, error) {
	switch platform {
	case constants.PlatformSlack:
		return f.slack, nil
	case constants.PlatformDiscord:
		return f.discord, nil
	case constants.PlatformEmail:
		return f.email, nil
	}
	return nil, constants.ErrInvalidPlatform
}
