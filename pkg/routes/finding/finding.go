package finding

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/sorrel/internal/repositories/finding"
)

var validate = validator.New()

// Register registers finding routes
func Register(g *echo.Group) {
	g.GET("", ListFindings)
	g.GET("/:id", GetFinding)
	g.PUT("/:id/resolve", ResolveFinding)
}

// ListFindings lists open findings, optionally filtered by entity type
func ListFindings(c echo.Context) error {
	ctx := c.Request().Context()

	entityType := c.QueryParam("entity_type")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, repo, err := ectoinject.GetContext[*finding.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	findings, err := repo.ListOpen(ctx, entityType, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, findings)
}

// GetFinding gets a finding by ID
func GetFinding(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*finding.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	record, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

// ResolveFindingRequest is the request body for resolving a finding
type ResolveFindingRequest struct {
	Status     string `json:"status" validate:"required,oneof=resolved dismissed"`
	ResolvedBy string `json:"resolved_by" validate:"required"`
}

// ResolveFinding marks a finding resolved or dismissed
func ResolveFinding(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")

	var req ResolveFindingRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*finding.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	if err := repo.Resolve(ctx, id, req.Status, req.ResolvedBy); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
