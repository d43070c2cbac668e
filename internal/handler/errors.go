package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"osiri-api/internal/constants"
	"osiri-api/internal/utils"
)

// respondError maps a service error onto the wire. Sentinel errors carry
// their own status; anything unrecognized is a 500 with the message hidden.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, constants.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized", err.Error()))
	case errors.Is(err, constants.ErrOrganizationNotFound),
		errors.Is(err, constants.ErrFeedNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found", err.Error()))
	case errors.Is(err, constants.ErrNotOrganizationOwner):
		c.JSON(http.StatusForbidden, utils.NewErrorResponse(403, "Forbidden", err.Error()))
	case errors.Is(err, constants.ErrAlreadyProvisioned),
		errors.Is(err, constants.ErrProvisionInProgress):
		c.JSON(http.StatusConflict, utils.NewErrorResponse(409, "Conflict", err.Error()))
	case errors.Is(err, constants.ErrSelectionLimitReached),
		errors.Is(err, constants.ErrDefaultFeedLocked),
		errors.Is(err, constants.ErrInvalidPlatform),
		errors.Is(err, constants.ErrNoPlatformSelected),
		errors.Is(err, constants.ErrEmailRequired),
		errors.Is(err, constants.ErrInvalidScheduleType),
		errors.Is(err, constants.ErrInvalidTimezone),
		errors.Is(err, constants.ErrConnectionIncomplete):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", err.Error()))
	case errors.Is(err, constants.ErrOAuthExchangeFailed):
		c.JSON(http.StatusBadGateway, utils.NewErrorResponse(502, "Bad Gateway", err.Error()))
	default:
		utils.LogError("request failed", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error"))
	}
}

// requireUserID pulls the authenticated user ID out of the context, writing a
// 401 if the middleware did not set one.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := userIDFromContext(c)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized", "authentication required"))
		return "", false
	}
	return userID, true
}

func userIDFromContext(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func emailFromContext(c *gin.Context) string {
	v, exists := c.Get("email")
	if !exists {
		return ""
	}
	s, _ := v.(string)
	return s
}
