package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/knayak08/AlumniBridge/internal/apperr"
	"github.com/knayak08/AlumniBridge/internal/services"
	"github.com/knayak08/AlumniBridge/internal/utils"
)

// GetMyAlumniProfileHandler returns the merged profile view for the
// authenticated user.
func GetMyAlumniProfileHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	merged, err := services.GetMyAlumniProfile(userID)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.OK(c, merged)
}

// UpdateMyAlumniProfileHandler applies the dual-document profile update and
// returns the merged refreshed view so the client can replace its cached
// session object atomically.
func UpdateMyAlumniProfileHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	tokenID := c.Locals("token_id").(string)

	var input services.UpdateAlumniInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Fail(c, apperr.Validation("Invalid request body"))
	}

	merged, err := services.UpdateMyAlumniProfile(userID, input)
	if err != nil {
		return utils.Fail(c, err)
	}
	if err := services.RefreshSessionUser(tokenID, userID); err != nil {
		return utils.Fail(c, err)
	}
	return utils.OK(c, merged)
}

// UploadAlumniPhotoHandler handles PUT /alumni/me/photo.
func UploadAlumniPhotoHandler(c *fiber.Ctx) error {
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

// ListAlumniHandler returns the directory listing, optionally narrowed by
// the q query term.
func ListAlumniHandler(c *fiber.Ctx) error {
	entries, err := services.ListAlumni()
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.OK(c, services.FilterAlumni(entries, c.Query("q")))
}

// GetAlumniByIDHandler returns one public profile joined with its owner.
func GetAlumniByIDHandler(c *fiber.Ctx) error {
	entry, err := services.GetAlumniByID(c.Params("id"))
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.OK(c, entry)
}
