package handlers

import (
	"net/http"

	"buildcost/internal/common"
	"buildcost/internal/repositories"

	"github.com/labstack/echo/v4"
)

// NotificationHandlers handles per-user notification HTTP requests
type NotificationHandlers struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationHandlers(notificationRepo repositories.NotificationRepository) *NotificationHandlers {
	return &NotificationHandlers{notificationRepo: notificationRepo}
}

// ListNotificationsRequest represents query parameters for listing notifications
type ListNotificationsRequest struct {
	IsRead *bool `query:"is_read"`
	Limit  int   `query:"limit"`
}

// ListNotifications returns the caller's notifications, newest first,
// alongside the unread count.
func (h *NotificationHandlers) ListNotifications(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListNotificationsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifications, err := h.notificationRepo.ListByUser(ctx, tenantID, userID, req.IsRead, req.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list notifications")
	}
	unread, err := h.notificationRepo.CountUnread(ctx, tenantID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count unread notifications")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkNotificationRead flips the read flag on a notification owned by the caller
func (h *NotificationHandlers) MarkNotificationRead(c echo.Context) error {
	ctx := c.Request().Context()

	notificationID, err := common.ValidateUUID(c.Param("id"), "notification ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	updated, err := h.notificationRepo.MarkRead(ctx, tenantID, userID, notificationID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notification read")
	}
	if !updated {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Notification marked as read",
	})
}

// DeleteNotification removes a notification owned by the caller
func (h *NotificationHandlers) DeleteNotification(c echo.Context) error {
	ctx := c.Request().Context()

	notificationID, err := common.ValidateUUID(c.Param("id"), "notification ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Tenant not found")
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	deleted, err := h.notificationRepo.Delete(ctx, tenantID, userID, notificationID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete notification")
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Notification deleted successfully",
	})
}
