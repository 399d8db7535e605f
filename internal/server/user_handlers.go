package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /users?limit=&offset=
func (s *Server) GetUsers(c *fiber.Ctx) error {
	page := parsePagination(c, maxPaginationLimit)

	users, err := s.authService.ListUsers(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}
