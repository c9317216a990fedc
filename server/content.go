package server

import (
	"net/http"

	"github.com/existflow/hackersunity/internal/content"
	"github.com/labstack/echo/v4"
)

func (s *Server) handleLeaderboard(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]content.Performer{
		"performers": content.Leaderboard(),
	})
}

func (s *Server) handleCommunity(c echo.Context) error {
	return c.JSON(http.StatusOK, content.CommunityPage())
}

func (s *Server) handleResources(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]content.ResourceCategory{
		"categories": content.Resources(),
	})
}
