package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/knayak08/AlumniBridge/internal/apperr"
	"github.com/knayak08/AlumniBridge/internal/services"
	"github.com/knayak08/AlumniBridge/internal/utils"
)

func RegisterHandler(c *fiber.Ctx) error {
	var request struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	if err := c.BodyParser(&request); err != nil {
		return utils.Fail(c, apperr.Validation("Invalid request body"))
	}

	user, token, err := services.RegisterUser(request.Name, request.Email, request.Password, request.Role)
	if err != nil {
		return utils.Fail(c, err)
	}

	return utils.Created(c, fiber.Map{"token": token, "user": user})
}

func LoginHandler(c *fiber.Ctx) error {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&request); err != nil {
		return utils.Fail(c, apperr.Validation("Invalid request body"))
	}

	user, token, err := services.LoginUser(request.Email, request.Password)
	if err != nil {
		return utils.Fail(c, err)
	}

	return utils.OK(c, fiber.Map{"token": token, "user": user})
}

// CurrentUserHandler returns the authenticated user's public document.
func CurrentUserHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	user, err := services.GetCurrentUser(userID)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.OK(c, user)
}

// UpdateCurrentUserHandler applies a user-scope (student) profile update and
// refreshes the session's cached user.
func UpdateCurrentUserHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	tokenID := c.Locals("token_id").(string)

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Fail(c, apperr.Validation("Invalid request body"))
	}

	user, err := services.UpdateCurrentUser(userID, input)
	if err != nil {
		return utils.Fail(c, err)
	}
	if err := services.RefreshSessionUser(tokenID, userID); err != nil {
		return utils.Fail(c, err)
	}
	return utils.OK(c, user)
}

// UploadUserPhotoHandler handles PUT /auth/upload-profile-photo for any role.
func UploadUserPhotoHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	tokenID := c.Locals("token_id").(string)

	result, err := services.UploadProfilePhoto(c, userID)
	if err != nil {
		return utils.Fail(c, err)
	}
	if err := services.RefreshSessionUser(tokenID, userID); err != nil {
		return utils.Fail(c, err)
	}
	return utils.OK(c, result)
}

// LogoutHandler deletes the server-side session; the token is rejected from
// then on even while unexpired.
func LogoutHandler(c *fiber.Ctx) error {
	tokenID := c.Locals("token_id").(string)

	if err := services.DeleteSession(tokenID); err != nil {
		return utils.Fail(c, err)
	}
	return c.JSON(utils.Envelope{Success: true, Message: "Logged out"})
}
