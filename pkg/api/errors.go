package api

import (
	"log/slog"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/icfp25/aedificium/pkg/apperr"
)

// mapError maps orchestrator/reconstructor errors to HTTP error responses,
// one status per apperr.Kind.
func mapError(err error) *echo.HTTPError {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case apperr.KindConflict:
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case apperr.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case apperr.KindUpstream:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	case apperr.KindPersistence:
		slog.Error("persistence error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	case apperr.KindReconstruction:
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case apperr.KindInvariant:
		slog.Error("invariant violation", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	default:
		slog.Error("unexpected error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
