package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/socialite-app/backend/src/controllers"
)

// FriendRoutes sets up friend-related routes for sending, accepting, rejecting and cancelling requests, listing friends and requests, removing friends, suggestions, and checking friendship status
func FriendRoutes(app *fiber.App, ctrl *controllers.FriendController, protect fiber.Handler) {
	friends := app.Group("/api/v1/friends", protect)

	friends.Post("/request/:userId", ctrl.SendFriendRequest)
	friends.Put("/accept/:requestId", ctrl.AcceptFriendRequest)
	friends.Put("/reject/:requestId", ctrl.RejectFriendRequest)
	friends.Delete("/cancel/:requestId", ctrl.CancelFriendRequest)
	friends.Get("/requests", ctrl.GetPendingRequests)
	friends.Get("/suggestions", ctrl.GetFriendSuggestions)
	friends.Get("/status/:userId", ctrl.GetFriendshipStatus)
	friends.Get("/", ctrl.GetFriends)
	friends.Delete("/:userId", ctrl.RemoveFriend)
}
