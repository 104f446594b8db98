package run

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/runner"
)

var validate = validator.New()

// Register registers run routes
func Register(g *echo.Group) {
	g.POST("", TriggerRun)
}

// TriggerRunRequest is the request body for running resolution over a snapshot
type TriggerRunRequest struct {
	RunID   string          `json:"run_id,omitempty"`
	Records models.Snapshot `json:"records" validate:"required"`
}

// TriggerRun runs the resolution pipeline synchronously over the posted
// snapshot and returns the findings it produced.
func TriggerRun(c echo.Context) error {
	ctx := c.Request().Context()

	var req TriggerRunRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, r, err := ectoinject.GetContext[*runner.Runner](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get runner")
	}

	result, err := r.Run(ctx, req.RunID, req.Records)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
