package dto

// Feed is a catalog entry as returned by the browse endpoint.
type Feed struct {
	UUID        string   `json:"uuid"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Categories  []string `json:"categories"`
	IconURL     string   `json:"icon_url,omitempty"`
}

// FeedPage is one page of the browsable catalog window.
type FeedPage struct {
	Feeds   []Feed `json:"feeds"`
	Page    int    `json:"page"`
	HasMore bool   `json:"has_more"`
}
