package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/icfp25/aedificium/pkg/orchestrator"
)

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func sessionRef(sessionID, userName string) orchestrator.SessionRef {
	return orchestrator.SessionRef{SessionID: optionalString(sessionID), UserName: optionalString(userName)}
}

// selectHandler handles POST /api/select.
func (s *Server) selectHandler(c *echo.Context) error {
	var req SelectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	res, err := s.svc.Select(c.Request().Context(), req.ProblemName, optionalString(req.UserName), req.Enqueue)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, SelectResponse{
		SessionID:   res.SessionID,
		ProblemName: res.ProblemName,
		Status:      string(res.Status),
	})
}

// exploreHandler handles POST /api/explore.
func (s *Server) exploreHandler(c *echo.Context) error {
	var req ExploreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	res, err := s.svc.Explore(c.Request().Context(), sessionRef(req.SessionID, req.UserName), req.Plans)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, ExploreResponse{
		SessionID:  res.SessionID,
		Results:    res.Results,
		QueryCount: res.QueryCount,
	})
}

// guessHandler handles POST /api/guess.
func (s *Server) guessHandler(c *echo.Context) error {
	var req GuessRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	res, err := s.svc.Guess(c.Request().Context(), sessionRef(req.SessionID, req.UserName), req.Map)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, GuessResponse{SessionID: res.SessionID, Correct: res.Correct})
}
