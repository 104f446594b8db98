package ruleset

import (
	"encoding/json"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/sorrel/internal/repositories/ruleset"
	"github.com/Ramsey-B/sorrel/pkg/models"
)

var validate = validator.New()

// Register registers rule set routes
func Register(g *echo.Group) {
	g.GET("", ListRuleSets)
	g.GET("/:entity_type", GetRuleSet)
	g.PUT("/:entity_type", UpsertRuleSet)
	g.DELETE("/:entity_type", DeleteRuleSet)
}

// ListRuleSets lists all stored rule sets
func ListRuleSets(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, repo, err := ectoinject.GetContext[*ruleset.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	ruleSets, err := repo.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ruleSets)
}

// GetRuleSet returns the active rule set for an entity type
func GetRuleSet(c echo.Context) error {
	ctx := c.Request().Context()

	entityType := c.Param("entity_type")
	if _, ok := models.ProfileFor(models.EntityKind(entityType)); !ok {
		return httperror.NewHTTPError(http.StatusBadRequest, "unsupported entity type")
	}

	ctx, repo, err := ectoinject.GetContext[*ruleset.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	rs, err := repo.GetActiveByEntityType(ctx, entityType)
	if err != nil {
		return err
	}
	if rs == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "no active rule set for entity type")
	}

	return c.JSON(http.StatusOK, rs)
}

// UpsertRuleSetRequest is the request body for storing a rule set
type UpsertRuleSetRequest struct {
	Definition json.RawMessage `json:"definition" validate:"required"`
	IsActive   bool            `json:"is_active"`
}

// UpsertRuleSet creates or replaces the rule set for an entity type
func UpsertRuleSet(c echo.Context) error {
	ctx := c.Request().Context()

	entityType := c.Param("entity_type")
	if _, ok := models.ProfileFor(models.EntityKind(entityType)); !ok {
		return httperror.NewHTTPError(http.StatusBadRequest, "unsupported entity type")
	}

	var req UpsertRuleSetRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// The definition must at least decode into a rule set. Unknown condition
	// kinds are allowed here; they fail closed at evaluation time.
	var rs models.RuleSet
	if err := json.Unmarshal(req.Definition, &rs); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "definition is not a valid rule set")
	}

	ctx, repo, err := ectoinject.GetContext[*ruleset.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	created, err := repo.Upsert(ctx, models.CreateRuleSetRequest{
		EntityType: entityType,
		Definition: req.Definition,
		IsActive:   req.IsActive,
	})
	if err != nil {
		return err
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{"entity_type": entityType}).Info("Stored rule set")
	}

	return c.JSON(http.StatusOK, created)
}

// DeleteRuleSet removes the rule set for an entity type
func DeleteRuleSet(c echo.Context) error {
	ctx := c.Request().Context()

	entityType := c.Param("entity_type")

	ctx, repo, err := ectoinject.GetContext[*ruleset.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	if err := repo.Delete(ctx, entityType); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
