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
	"net/url"

	"osiri-api/config"
	"osiri-api/internal/constants"
)

type discordConnector struct {
	app       config.OAuthApp
	exchanger Exchanger
}

func (d *discordConnector) Platform() string {
	return constants.PlatformDiscord
}

// AuthorizeURL builds the Discord authorize URL with the fixed bot permission
// bitmask. The redirect-back target carries the user's language.
func (d *discordConnector) AuthorizeURL(p AuthorizeParams) string {
	redirect := d.app.RedirectURI
	if q := (url.Values{"lang": {p.Language}}).Encode(); q != "" {
		redirect += "?" + q
	}

	v := url.Values{}
	v.Set("client_id", d.app.ClientID)
	v.Set("scope", "bot webhook.incoming")
	v.Set("permissions", constants.DiscordPermissions)
	v.Set("response_type", "code")
	v.Set("redirect_uri", redirect)
	return constants.DiscordAuthorizeURL + "?" + v.Encode()
}

func (d *discordConnector) ExchangeCallback(ctx context.Context, code string) (*Connection, error) {
	return d.exchanger.ExchangeCode(ctx, code)
}

func (d *discordConnector) DescribeRecipient(c Connection) string {
	return c.ChannelID
}

func (d *discordConnector) ValidatePending(c Connection) error {
	if c.WorkspaceID == "" || c.ChannelID == "" {
		return constants.ErrConnectionIncomplete
	}
	return nil
}
