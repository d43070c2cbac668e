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

// Delivery platforms
const (
	PlatformSlack   = "slack"
	PlatformDiscord = "discord"
	PlatformEmail   = "email"
)

// Organization member roles
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Notification schedule types. Realtime delivery has no schedule row; the
// channel's schedule reference is null.
const (
	ScheduleRealtime     = "realtime"
	ScheduleDailyMorning = "daily_morning"
	ScheduleDailyEvening = "daily_evening"
	ScheduleWeekly       = "weekly"
)

// Subscription statuses as written by the billing webhook consumer.
const (
	SubscriptionTrialing = "trialing"
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

// Onboarding wizard steps
const (
	StepInterestSelection = 1
	StepPlatformSetup     = 2
)

// Feed catalog page size. Page 1 replaces the accumulated window, later pages
// append to it.
const FeedPageSize = 10

// OAuth endpoints and fixed scope sets for the chat platforms.
const (
	SlackAuthorizeURL = "https://slack.com/oauth/v2/authorize"
	SlackTokenURL     = "https://slack.com/api/oauth.v2.access"
	SlackBotScopes    = "chat:write,channels:read,channels:join"

	DiscordAuthorizeURL = "https://discord.com/api/oauth2/authorize"
	DiscordTokenURL     = "https://discord.com/api/oauth2/token"
	// DiscordPermissions is the bot permission bitmask: view channels,
	// send messages, embed links.
	DiscordPermissions = "19456"
)

// ValidScheduleType reports whether the given schedule type is known.
func ValidScheduleType(t string) bool {
	switch t {
	case ScheduleRealtime, ScheduleDailyMorning, ScheduleDailyEvening, ScheduleWeekly:
		return true
	}
	return false
}

// ValidPlatform reports whether the given delivery platform is known.
func ValidPlatform(p string) bool {
	switch p {
	case PlatformSlack, PlatformDiscord, PlatformEmail:
		return true
	}
	return false
}
