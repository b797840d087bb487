package server

import (
	"mime/multipart"
	"strconv"

	"viewtube/internal/models"
	"viewtube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// currentUserID reads the authenticated user ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

// parseID parses a positive integer route parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}

// parsePagination reads limit/offset query params with sane bounds.
func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// formUpload converts a multipart file header into a service upload. Returns
// nil when the part is absent.
func formUpload(c *fiber.Ctx, field string) (*service.Upload, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}, nil
	}
	return openUpload(header)
}

func openUpload(header *multipart.FileHeader) (*service.Upload, func(), error) {
	file, err := header.Open()
	if err != nil {
		return nil, func() {}, models.NewValidationError("Could not read uploaded file")
	}
	upload := &service.Upload{
		Reader:      file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}
	return upload, func() { file.Close() }, nil
}
