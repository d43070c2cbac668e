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

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"osiri-api/internal/dto"
	"osiri-api/internal/service"
	"osiri-api/internal/utils"
)

// OnboardingHandler exposes the onboarding wizard over HTTP. All routes
// operate on the authenticated user's draft.
type OnboardingHandler struct {
	onboardingService *service.OnboardingService
}

func NewOnboardingHandler(onboardingService *service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{
		onboardingService: onboardingService,
	}
}

// GetDraft returns the current wizard state, creating a fresh draft on first
// access.
func (h *OnboardingHandler) GetDraft(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.onboardingService.Draft(userID))
}

// Reset discards the draft so the wizard starts over.
func (h *OnboardingHandler) Reset(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	h.onboardingService.Reset(userID)
	c.JSON(http.StatusOK, h.onboardingService.Draft(userID))
}

// SetName updates the draft organization name.
func (h *OnboardingHandler) SetName(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.SetNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	c.JSON(http.StatusOK, h.onboardingService.SetOrganizationName(userID, req.Name))
}

// SetCategories replaces the selected category set.
func (h *OnboardingHandler) SetCategories(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.SetCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	c.JSON(http.StatusOK, h.onboardingService.SetCategories(userID, req.Categories))
}

// ToggleFeed flips a feed's membership in the selection.
func (h *OnboardingHandler) ToggleFeed(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	feedID := c.Param("feed_id")
	if feedID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", "Feed ID is required"))
		return
	}

	draft, advanced, err := h.onboardingService.ToggleFeed(userID, feedID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToggleFeedResponse{Draft: draft, Advanced: advanced})
}

// ReplaceFeeds replaces the selection wholesale.
func (h *OnboardingHandler) ReplaceFeeds(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.ReplaceFeedsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	draft, err := h.onboardingService.ReplaceFeeds(userID, req.FeedIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// SetPlatform picks the delivery platform. For chat platforms the response
// carries the provider authorize URL to redirect the browser to.
func (h *OnboardingHandler) SetPlatform(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.SetPlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	resp, err := h.onboardingService.SetPlatform(userID, req.Platform, c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SetEmail collects the email recipient and cadence inline.
func (h *OnboardingHandler) SetEmail(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.SetEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	draft, err := h.onboardingService.SetEmail(userID, req.Email, req.ScheduleType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// SetSchedule updates the cadence on the pending connection.
func (h *OnboardingHandler) SetSchedule(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.SetScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	draft, err := h.onboardingService.SetScheduleType(userID, req.ScheduleType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// Back returns from platform setup to interest selection.
func (h *OnboardingHandler) Back(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.onboardingService.Back(userID))
}

// OAuthCallback resumes the wizard with the authorization code the provider
// redirected back with.
func (h *OnboardingHandler) OAuthCallback(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.OAuthCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}
	if req.Code == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", "Authorization code is required"))
		return
	}

	draft, err := h.onboardingService.HandleOAuthCallback(c.Request.Context(), userID, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// Complete commits the draft in a single transaction.
func (h *OnboardingHandler) Complete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	resp, err := h.onboardingService.Complete(c.Request.Context(), userID, emailFromContext(c), req.Timezone)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RegisterRoutes registers the onboarding routes with the router
func (h *OnboardingHandler) RegisterRoutes(r *gin.Engine) {
	onboardingGroup := r.Group("/api/v1/onboarding")
	{
		onboardingGroup.GET("", h.GetDraft)
		onboardingGroup.POST("/reset", h.Reset)
		onboardingGroup.PUT("/name", h.SetName)
		onboardingGroup.PUT("/categories", h.SetCategories)
		onboardingGroup.POST("/feeds/:feed_id/toggle", h.ToggleFeed)
		onboardingGroup.PUT("/feeds", h.ReplaceFeeds)
		onboardingGroup.PUT("/platform", h.SetPlatform)
		onboardingGroup.PUT("/email", h.SetEmail)
		onboardingGroup.PUT("/schedule", h.SetSchedule)
		onboardingGroup.POST("/back", h.Back)
		onboardingGroup.POST("/callback", h.OAuthCallback)
		onboardingGroup.POST("/complete", h.Complete)
	}
}
