package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"osiri-api/internal/dto"
	"osiri-api/internal/service"
	"osiri-api/internal/utils"
)

type OrganizationHandler struct {
	orgService *service.OrganizationService
}

func NewOrganizationHandler(orgService *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// GetMyOrganization resolves the caller's organization. A caller with no
// membership gets 200 with a null body; the client routes to onboarding.
func (h *OrganizationHandler) GetMyOrganization(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orgCtx, err := h.orgService.ResolveForUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orgCtx)
}

func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", "Name is required"))
		return
	}

	orgCtx, err := h.orgService.CreateOrganization(userID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, orgCtx)
}

func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orgUUID := c.Param("org_uuid")
	if orgUUID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", "UUID is required"))
		return
	}

	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
		return
	}

	orgCtx, err := h.orgService.UpdateOrganization(userID, orgUUID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orgCtx)
}

// DeleteOrganization removes the caller's organization. Owner-only.
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orgUUID := c.Param("org_uuid")
	if orgUUID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", "UUID is required"))
		return
	}

	if err := h.orgService.DeleteOrganization(userID, orgUUID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSubscriptionStatus reports whether the caller's subscription currently
// unlocks gated features and which banner the dashboard should show.
func (h *OrganizationHandler) GetSubscriptionStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orgCtx, err := h.orgService.ResolveForUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	var org *dto.Organization
	if orgCtx != nil {
		org = &orgCtx.Organization
	}

	c.JSON(http.StatusOK, dto.SubscriptionStatusResponse{
		Valid:  service.IsSubscriptionValid(org, time.Now()),
		Banner: service.BannerForSubscription(org),
	})
}

// ListChannels returns the caller's configured delivery channels so the
// dashboard can render them after onboarding completes.
func (h *OrganizationHandler) ListChannels(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	channels, err := h.orgService.ListChannels(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, channels)
}

func (h *OrganizationHandler) RegisterRoutes(r *gin.Engine) {
	orgGroup := r.Group("/api/v1/organizations")
	{
		orgGroup.POST("", h.CreateOrganization)
		orgGroup.GET("/me", h.GetMyOrganization)
		orgGroup.PATCH("/:org_uuid", h.UpdateOrganization)
		orgGroup.DELETE("/:org_uuid", h.DeleteOrganization)
		orgGroup.GET("/me/subscription", h.GetSubscriptionStatus)
		orgGroup.GET("/me/channels", h.ListChannels)
	}
}
