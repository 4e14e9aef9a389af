package api

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// handleServiceError maps errors coming back from the auth and tasks
// services to HTTP statuses. Errors crossing the service container lose
// their type identity, so mapping matches the known sentinel messages,
// the same way the rest of the codebase treats flattened service errors.
func handleServiceError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "invalid email or password"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid email or password",
		})
	case strings.Contains(errStr, "user with this email already exists"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "User with this email already exists",
		})
	case strings.Contains(errStr, "invalid email format"),
		strings.Contains(errStr, "name must be"),
		strings.Contains(errStr, "age must be"),
		strings.Contains(errStr, "password must be"),
		strings.Contains(errStr, `password cannot contain`),
		strings.Contains(errStr, "description is required"),
		strings.Contains(errStr, "avatar must be"),
		strings.Contains(errStr, "avatar file is required"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: errMessage(errStr),
		})
	case strings.Contains(errStr, "task not found"),
		strings.Contains(errStr, "user not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Not found",
		})
	default:
		// Malformed ids and any other store-layer fault land here: logged,
		// surfaced generically, never retried.
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// errMessage strips the adapter's "<service> request failed: " prefix so
// validation messages read cleanly in responses.
func errMessage(errStr string) string {
	if i := strings.LastIndex(errStr, "failed: "); i >= 0 {
		return errStr[i+len("failed: "):]
	}
	return errStr
}
