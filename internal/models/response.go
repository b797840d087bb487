package models

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// APIResponse is the uniform success envelope returned by every endpoint.
type APIResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// APIErrorResponse is the uniform error envelope.
type APIErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// Respond writes the success envelope with the given status.
func Respond(c *fiber.Ctx, status int, data interface{}, message string) error {
	return c.Status(status).JSON(APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// RespondWithError translates err into the error envelope. AppError values
// keep their status and message; anything else is an internal error.
func RespondWithError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"
	var details []string

	var appErr *AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		message = appErr.Message
		if appErr.Err != nil {
			details = append(details, appErr.Err.Error())
		}
	} else if err != nil {
		details = append(details, err.Error())
	}

	return c.Status(status).JSON(APIErrorResponse{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     append([]string{}, details...),
	})
}
