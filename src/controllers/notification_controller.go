package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/socialite-app/backend/src/lib"
	"github.com/socialite-app/backend/src/services"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// GetUserNotifications returns the authenticated user's notifications, newest first
func (ctrl *NotificationController) GetUserNotifications(c *fiber.Ctx) error {
	actingUser := c.Locals("userID").(primitive.ObjectID)

	notifications, err := ctrl.notifications.List(c.Context(), actingUser)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(notifications)
}

// MarkNotificationAsRead marks a notification as read for the authenticated user
func (ctrl *NotificationController) MarkNotificationAsRead(c *fiber.Ctx) error {
	notificationID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid notification ID format"))
	}

	actingUser := c.Locals("userID").(primitive.ObjectID)

	updated, err := ctrl.notifications.MarkRead(c.Context(), notificationID, actingUser)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

// MarkAllNotificationsAsRead marks every unread notification as read for the authenticated user
func (ctrl *NotificationController) MarkAllNotificationsAsRead(c *fiber.Ctx) error {
	actingUser := c.Locals("userID").(primitive.ObjectID)

	updated, err := ctrl.notifications.MarkAllRead(c.Context(), actingUser)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"updated": updated,
	})
}

// DeleteNotification deletes a notification for the authenticated user
func (ctrl *NotificationController) DeleteNotification(c *fiber.Ctx) error {
	notificationID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid notification ID format"))
	}

	actingUser := c.Locals("userID").(primitive.ObjectID)

	if err := ctrl.notifications.Delete(c.Context(), notificationID, actingUser); err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Notification deleted successfully"))
}

// GetUnreadCount returns the number of unread notifications for the authenticated user
func (ctrl *NotificationController) GetUnreadCount(c *fiber.Ctx) error {
	actingUser := c.Locals("userID").(primitive.ObjectID)

	count, err := ctrl.notifications.UnreadCount(c.Context(), actingUser)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": count,
	})
}
