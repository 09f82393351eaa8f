package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/icfp25/aedificium/pkg/orchestrator"
)

// listSessionsHandler handles GET /api/sessions.
func (s *Server) listSessionsHandler(c *echo.Context) error {
	sessions, err := s.svc.ListSessions(c.Request().Context())
	if err != nil {
		return mapError(err)
	}
	out := make([]SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sessionResponse(sess))
	}
	return c.JSON(http.StatusOK, out)
}

// currentSessionHandler handles GET /api/sessions/current.
func (s *Server) currentSessionHandler(c *echo.Context) error {
	sess, err := s.svc.GetCurrentActive(c.Request().Context())
	if err != nil {
		return mapError(err)
	}
	if sess == nil {
		return c.JSON(http.StatusOK, nil)
	}
	resp := sessionResponse(*sess)
	return c.JSON(http.StatusOK, &resp)
}

// getSessionHandler handles GET /api/sessions/:id.
func (s *Server) getSessionHandler(c *echo.Context) error {
	detail, err := s.svc.GetSession(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, detailResponse(detail))
}

// exportSessionHandler handles GET /api/sessions/:id/export.
func (s *Server) exportSessionHandler(c *echo.Context) error {
	detail, err := s.svc.ExportSession(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, detailResponse(detail))
}

// abortSessionHandler handles PUT /api/sessions/:id/abort.
func (s *Server) abortSessionHandler(c *echo.Context) error {
	if err := s.svc.Abort(c.Request().Context(), c.Param("id")); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusOK)
}

func detailResponse(d *orchestrator.SessionDetail) SessionDetailResponse {
	logs := make([]APILogResponse, 0, len(d.APILogs))
	for _, l := range d.APILogs {
		logs = append(logs, apiLogResponse(l))
	}
	return SessionDetailResponse{Session: sessionResponse(d.Session), APILogs: logs}
}
