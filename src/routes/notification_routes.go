package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/socialite-app/backend/src/controllers"
)

// NotificationRoutes sets up notification-related routes for listing, reading, deleting and counting notifications
func NotificationRoutes(app *fiber.App, ctrl *controllers.NotificationController, protect fiber.Handler) {
	notifications := app.Group("/api/v1/notifications", protect)

	notifications.Get("/", ctrl.GetUserNotifications)
	notifications.Get("/unread-count", ctrl.GetUnreadCount)
	notifications.Put("/read-all", ctrl.MarkAllNotificationsAsRead)
	notifications.Put("/:id/read", ctrl.MarkNotificationAsRead)
	notifications.Delete("/:id", ctrl.DeleteNotification)
}
