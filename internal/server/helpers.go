package server

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"network/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten indicates a helper already committed the HTTP response.
// Handlers must return nil (not this error) so the ErrorHandler does not overwrite it.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+strings.ToUpper(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// pageQuery reads ?page=; missing or malformed values mean the first page.
func pageQuery(c *fiber.Ctx) int {
	page := c.QueryInt("page", 1)
	if page < 1 {
		return 1
	}
	return page
}

// currentUserID returns the id stored by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// flexibleID accepts a JSON number or a numeric string.
type flexibleID uint

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n = json.Number(strings.TrimSpace(s))
	}
	if n == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseUint(n.String(), 10, 32)
	if err != nil {
		return err
	}
	*f = flexibleID(v)
	return nil
}
