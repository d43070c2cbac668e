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

type slackConnector struct {
	app       config.OAuthApp
	exchanger Exchanger
}

func (s *slackConnector) Platform() string {
	return constants.PlatformSlack
}

// AuthorizeURL builds the Slack OAuth v2 authorize URL. The redirect-back
// target carries the user's language and id so the wizard resumes in the
// right session.
func (s *slackConnector) AuthorizeURL(p AuthorizeParams) string {
	redirect := s.app.RedirectURI
	if q := (url.Values{"lang": {p.Language}, "user": {p.UserID}}).Encode(); q != "" {
		redirect += "?" + q
	}

	v := url.Values{}
	v.Set("client_id", s.app.ClientID)
	v.Set("scope", constants.SlackBotScopes)
	v.Set("redirect_uri", redirect)
	return constants.SlackAuthorizeURL + "?" + v.Encode()
}

func (s *slackConnector) ExchangeCallback(ctx context.Context, code string) (*Connection, error) {
	return s.exchanger.ExchangeCode(ctx, code)
}

func (s *slackConnector) DescribeRecipient(c Connection) string {
	return c.ChannelID
}

func (s *slackConnector) ValidatePending(c Connection) error {
	if c.WorkspaceID == "" || c.ChannelID == "" {
		return constants.ErrConnectionIncomplete
	}
	return nil
}
