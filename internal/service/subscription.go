package service

import (
	"time"

	"osiri-api/internal/constants"
	"osiri-api/internal/dto"
)

// Banner variants shown by the dashboard. Exactly one applies at a time;
// unrecognized subscription statuses show nothing.
const (
	BannerNone          = ""
	BannerTrial         = "trial"
	BannerActive        = "active"
	BannerPastDue       = "past_due"
	BannerCancelPending = "cancel_pending"
)

// IsSubscriptionValid reports whether the organization may use gated
// features at the given instant: active, or trialing with the trial end
// strictly in the future. Nil organization and everything else (past_due,
// canceled, missing trial date) are invalid.
//
// Kept as a pure function because UI gating all over the app depends on it.
func IsSubscriptionValid(org *dto.Organization, now time.Time) bool {
	if org == nil {
		return false
	}
	switch org.SubscriptionStatus {
	case constants.SubscriptionActive:
		return true
	case constants.SubscriptionTrialing:
		return org.TrialEndDate != nil && org.TrialEndDate.After(now)
	}
	return false
}

// BannerForSubscription maps a subscription status to a banner variant.
// Total over the status enum: active with a scheduled cancellation takes the
// cancel-pending banner, and any unmapped status falls through to none
// rather than failing.
func BannerForSubscription(org *dto.Organization) string {
	if org == nil {
		return BannerNone
	}
	switch org.SubscriptionStatus {
	case constants.SubscriptionActive:
		if org.WillCancel {
			return BannerCancelPending
		}
		return BannerActive
	case constants.SubscriptionTrialing:
		return BannerTrial
	case constants.SubscriptionPastDue:
		return BannerPastDue
	}
	return BannerNone
}
