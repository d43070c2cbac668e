package dto

// PendingConnection mirrors the draft's pending workspace connection.
type PendingConnection struct {
	Platform     string `json:"platform"`
	WorkspaceID  string `json:"workspace_id,omitempty"`
	ChannelID    string `json:"channel_id,omitempty"`
	Email        string `json:"email,omitempty"`
	ScheduleType string `json:"schedule_type"`
}

// OnboardingDraft is the wizard state returned to the client.
type OnboardingDraft struct {
	Step               int                `json:"step"`
	OrganizationName   string             `json:"organization_name"`
	SelectedFeedIDs    []string           `json:"selected_feed_ids"`
	SelectedCategories []string           `json:"selected_categories"`
	Platform           string             `json:"platform,omitempty"`
	PendingConnection  *PendingConnection `json:"pending_connection,omitempty"`
	SelectionCap       int                `json:"selection_cap"`
	CapReached         bool               `json:"cap_reached"`
}

// SetNameRequest updates the draft organization name.
type SetNameRequest struct {
	Name string `json:"name"`
}

// SetPlatformRequest picks the delivery platform. For chat platforms the
// response carries the provider authorize URL to redirect the browser to.
type SetPlatformRequest struct {
	Platform string `json:"platform"`
}

// SetPlatformResponse returns the updated draft and, for chat platforms, the
// OAuth authorize URL.
type SetPlatformResponse struct {
	Draft        OnboardingDraft `json:"draft"`
	AuthorizeURL string          `json:"authorize_url,omitempty"`
}

// SetEmailRequest collects the email recipient and cadence inline, without a
// provider round-trip.
type SetEmailRequest struct {
	Email        string `json:"email"`
	ScheduleType string `json:"schedule_type"`
}

// SetCategoriesRequest replaces the selected category set.
type SetCategoriesRequest struct {
	Categories []string `json:"categories"`
}

// SetScheduleRequest updates the delivery cadence on the pending connection.
type SetScheduleRequest struct {
	ScheduleType string `json:"schedule_type"`
}

// ReplaceFeedsRequest replaces the selected feed set wholesale.
type ReplaceFeedsRequest struct {
	FeedIDs []string `json:"feed_ids"`
}

// OAuthCallbackRequest carries the authorization code the provider redirected
// back with.
type OAuthCallbackRequest struct {
	Code string `json:"code"`
}

// CompleteRequest finishes the wizard. Timezone is the browser's IANA zone
// name, used for non-realtime schedules; empty means UTC.
type CompleteRequest struct {
	Timezone string `json:"timezone"`
}

// CompleteResponse reports the rows created by a successful provisioning
// commit.
type CompleteResponse struct {
	OrganizationUUID string  `json:"organization_uuid"`
	ConnectionUUID   *string `json:"connection_uuid,omitempty"`
	ScheduleUUID     *string `json:"schedule_uuid,omitempty"`
	ChannelUUID      string  `json:"channel_uuid"`
}

// ToggleFeedResponse reports the toggle outcome. Advanced is true when the
// selection just reached the cap and the wizard moved to platform setup.
type ToggleFeedResponse struct {
	Draft    OnboardingDraft `json:"draft"`
	Advanced bool            `json:"advanced"`
}
