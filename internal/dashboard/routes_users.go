package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/premiumshare/paytracker/internal/models"
	"github.com/premiumshare/paytracker/internal/utils"
)

func (s *Server) GetUsers(c echo.Context) error {
	users, err := s.api.ListUsers(utils.RequestContext(c))
	if err != nil {
		return s.renderError(c, err, "cannot load the users")
	}
	return c.JSON(http.StatusOK, users)
}

func (s *Server) GetUser(c echo.Context) error {
	user, err := s.api.GetUser(utils.RequestContext(c), c.Param("id"))
	if err != nil {
		return s.renderError(c, err, "cannot load the user")
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) PostUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "the user is malformed"})
	}
	user, err := s.api.CreateUser(utils.RequestContext(c), req)
	if err != nil {
		return s.renderError(c, err, "cannot create the user")
	}
	return c.JSON(http.StatusCreated, user)
}

func (s *Server) PutUser(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "the user is malformed"})
	}
	user, err := s.api.UpdateUser(utils.RequestContext(c), c.Param("id"), req)
	if err != nil {
		return s.renderError(c, err, "cannot update the user")
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser removes the user and any payment session opened for it.
func (s *Server) DeleteUser(c echo.Context) error {
	userID := c.Param("id")
	err := s.api.DeleteUser(utils.RequestContext(c), userID)
	if err != nil {
		return s.renderError(c, err, "cannot delete the user")
	}
	s.registry.Remove(userID)
	return c.NoContent(http.StatusNoContent)
}
