package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/socialite-app/backend/src/lib"
	"github.com/socialite-app/backend/src/models"
	"github.com/socialite-app/backend/src/services"
	"github.com/socialite-app/backend/src/stores"
)

type FriendController struct {
	friends *services.FriendService
	queries *services.QueryService
	users   stores.UserStore
}

func NewFriendController(friends *services.FriendService, queries *services.QueryService, users stores.UserStore) *FriendController {
	return &FriendController{
		friends: friends,
		queries: queries,
		users:   users,
	}
}

// SendFriendRequest sends a friend request from the authenticated user to another user
func (ctrl *FriendController) SendFriendRequest(c *fiber.Ctx) error {
	targetUserID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID format"))
	}

	actingUser := c.Locals("userID").(primitive.ObjectID)

	request, err := ctrl.friends.SendRequest(c.Context(), actingUser, targetUserID)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

// AcceptFriendRequest accepts a pending friend request addressed to the authenticated user
func (ctrl *FriendController) AcceptFriendRequest(c *fiber.Ctx) error {
	requestID, err := primitive.ObjectIDFromHex(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request ID format"))
	}

	actingUser := c.Locals("userID").(primitive.ObjectID)

	if err := ctrl.friends.AcceptRequest(c.Context(), requestID, actingUser); err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Friend request accepted"))
}

// RejectFriendRequest rejects a pending friend request addressed to the authenticated user
func (ctrl *FriendController) RejectFriendRequest(c *fiber.Ctx) error {
	requestID, err := primitive.ObjectIDFromHex(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request ID format"))
	}

	actingUser := c.Locals("userID").(primitive.ObjectID)

	if err := ctrl.friends.RejectRequest(c.Context(), requestID, actingUser); err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Friend request rejected"))
}

// CancelFriendRequest withdraws a pending friend request sent by the authenticated user
func (ctrl *FriendController) CancelFriendRequest(c *fiber.Ctx) error {
	requestID, err := primitive.ObjectIDFromHex(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request ID format"))
	}

	actingUser := c.Locals("userID").(primitive.ObjectID)

	if err := ctrl.friends.CancelRequest(c.Context(), requestID, actingUser); err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Friend request cancelled"))
}

// RemoveFriend removes the friendship between the authenticated user and another user
func (ctrl *FriendController) RemoveFriend(c *fiber.Ctx) error {
	targetUserID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID format"))
	}

	actingUser := c.Locals("userID").(primitive.ObjectID)

	if err := ctrl.friends.RemoveFriendship(c.Context(), actingUser, targetUserID); err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Friend removed successfully"))
}

// GetFriends returns the authenticated user's friends
func (ctrl *FriendController) GetFriends(c *fiber.Ctx) error {
	actingUser := c.Locals("userID").(primitive.ObjectID)

	friendIds, err := ctrl.queries.Friends(c.Context(), actingUser)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	friends := make([]models.UserDto, 0, len(friendIds))
	for _, id := range friendIds {
		user, err := ctrl.users.FindByID(c.Context(), id)
		if err != nil {
			if errors.Is(err, stores.ErrNotFound) {
				continue
			}
			return lib.ErrorResponse(c, err)
		}
		friends = append(friends, user.Dto())
	}

	return c.Status(fiber.StatusOK).JSON(friends)
}

// GetPendingRequests returns the pending friend requests involving the authenticated user, with sender data populated
func (ctrl *FriendController) GetPendingRequests(c *fiber.Ctx) error {
	actingUser := c.Locals("userID").(primitive.ObjectID)

	pending, err := ctrl.queries.ListPending(c.Context(), actingUser)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	type pendingRequestResponse struct {
		ID        primitive.ObjectID `json:"id"`
		Sender    models.UserDto     `json:"sender"`
		Recipient primitive.ObjectID `json:"recipient"`
		Status    string             `json:"status"`
		CreatedAt string             `json:"createdAt"`
	}

	response := make([]pendingRequestResponse, 0, len(pending))
	for _, request := range pending {
		sender, err := ctrl.users.FindByID(c.Context(), request.Sender)
		if err != nil && !errors.Is(err, stores.ErrNotFound) {
			return lib.ErrorResponse(c, err)
		}

		response = append(response, pendingRequestResponse{
			ID:        request.Id,
			Sender:    sender.Dto(),
			Recipient: request.Recipient,
			Status:    string(request.Status),
			CreatedAt: request.CreatedAt.Format(time.RFC3339),
		})
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetFriendshipStatus returns the relationship state between the authenticated user and another user
func (ctrl *FriendController) GetFriendshipStatus(c *fiber.Ctx) error {
	targetUserID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID format"))
	}

	actingUser := c.Locals("userID").(primitive.ObjectID)

	status, request, err := ctrl.queries.FriendshipStatus(c.Context(), actingUser, targetUserID)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	if status == services.StatusPendingReceived {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    status,
			"requestId": request.Id,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": status,
	})
}

// GetFriendSuggestions returns candidate users the authenticated user might know
func (ctrl *FriendController) GetFriendSuggestions(c *fiber.Ctx) error {
	actingUser := c.Locals("userID").(primitive.ObjectID)

	limit, _ := strconv.ParseInt(c.Query("limit", "5"), 10, 64)

	suggestions, err := ctrl.queries.Suggestions(c.Context(), actingUser, limit)
	if err != nil {
		return lib.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(suggestions)
}
