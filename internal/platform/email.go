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
	"strings"

	"osiri-api/internal/constants"
)

// emailConnector connects without a provider round-trip: the address is
// collected inline and only validated here.
type emailConnector struct{}

func (e *emailConnector) Platform() string {
	return constants.PlatformEmail
}

func (e *emailConnector) AuthorizeURL(p AuthorizeParams) string {
	return ""
}

func (e *emailConnector) ExchangeCallback(ctx context.Context, code string) (*Connection, error) {
	// Email has no OAuth flow; a callback for it means the client mixed up
	// its platform state.
	return nil, constants.ErrInvalidPlatform
}

func (e *emailConnector) DescribeRecipient(c Connection) string {
	return c.Email
}

func (e *emailConnector) ValidatePending(c Connection) error {
	addr := strings.TrimSpace(c.Email)
	if addr == "" {
		return constants.ErrEmailRequired
	}
	at := strings.Index(addr, "@")
	if at < 1 || at == len(addr)-1 {
		return constants.ErrEmailRequired
	}
	return nil
}
