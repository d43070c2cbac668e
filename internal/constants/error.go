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

package constants

import "errors"

var (
	ErrUnauthenticated      = errors.New("no authenticated user")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrAlreadyProvisioned   = errors.New("user already belongs to an organization")
	ErrProvisionInProgress  = errors.New("provisioning already in progress")
	ErrNotOrganizationOwner = errors.New("only the organization owner may do this")
)

var (
	ErrSelectionLimitReached = errors.New("feed selection limit reached")
	ErrDefaultFeedLocked     = errors.New("default feed cannot be deselected")
	ErrFeedNotFound          = errors.New("feed not found")
)

var (
	ErrInvalidPlatform      = errors.New("invalid delivery platform")
	ErrNoPlatformSelected   = errors.New("no delivery platform selected")
	ErrEmailRequired        = errors.New("email address is required")
	ErrInvalidScheduleType  = errors.New("invalid schedule type")
	ErrInvalidTimezone      = errors.New("invalid timezone identifier")
	ErrOAuthExchangeFailed  = errors.New("oauth code exchange failed")
	ErrConnectionIncomplete = errors.New("workspace connection is incomplete")
)
