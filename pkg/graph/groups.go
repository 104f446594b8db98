package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

// GroupService mirrors duplicate groups into the graph. Each member record
// becomes a node labeled by its entity kind, and every related record gets a
// SAME_AS edge pointing at the group's primary record so clusters render as
// stars around the surviving record.
type GroupService struct {
	client *Client
	logger ectologger.Logger
}

// NewGroupService creates a new group service
func NewGroupService(client *Client, logger ectologger.Logger) *GroupService {
	return &GroupService{
		client: client,
		logger: logger,
	}
}

// SyncGroup replaces the graph representation of a single duplicate group.
// Previous SAME_AS edges carrying the same group_id are deleted first so
// re-running a snapshot after records merge does not leave stale edges.
func (s *GroupService) SyncGroup(ctx context.Context, group *models.DuplicateGroup) error {
	ctx, span := tracing.StartSpan(ctx, "graph.GroupService.SyncGroup")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"group_id":    group.GroupID,
		"entity_type": group.Kind,
		"members":     len(group.Members),
	})

	label := sanitizeLabel(string(group.Kind))

	memberRows := make([]map[string]any, len(group.Members))
	for i, id := range group.Members {
		memberRows[i] = map[string]any{
			"id":      id,
			"primary": id == group.PrimaryID,
		}
	}

	edgeRows := make([]map[string]any, 0, len(group.RelatedIDs))
	for _, id := range group.RelatedIDs {
		edgeRows = append(edgeRows, map[string]any{
			"related_id": id,
			"props": map[string]any{
				"group_id":  group.GroupID,
				"severity":  string(group.TopSeverity),
				"rule_id":   group.RuleID,
				"synced_at": time.Now().UTC().Format(time.RFC3339),
			},
		})
	}

	clearCypher := `
		MATCH ()-[r:SAME_AS {group_id: $group_id}]->()
		DELETE r
	`

	nodeCypher := fmt.Sprintf(`
		UNWIND $members AS m
		MERGE (e:%s {id: m.id})
		SET e.entity_type = $entity_type, e.primary = m.primary
	`, label)

	edgeCypher := fmt.Sprintf(`
		UNWIND $edges AS edge
		MATCH (related:%s {id: edge.related_id})
		MATCH (primary:%s {id: $primary_id})
		MERGE (related)-[r:SAME_AS {group_id: $group_id}]->(primary)
		SET r += edge.props
	`, label, label)

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, clearCypher, map[string]any{"group_id": group.GroupID}); err != nil {
			return nil, err
		}
		if _, err := tx.Run(ctx, nodeCypher, map[string]any{
			"members":     memberRows,
			"entity_type": string(group.Kind),
		}); err != nil {
			return nil, err
		}
		if len(edgeRows) == 0 {
			return nil, nil
		}
		result, err := tx.Run(ctx, edgeCypher, map[string]any{
			"edges":      edgeRows,
			"primary_id": group.PrimaryID,
			"group_id":   group.GroupID,
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	if err != nil {
		log.WithError(err).Error("Failed to sync duplicate group to graph")
		return fmt.Errorf("failed to sync duplicate group to graph: %w", err)
	}

	log.Debug("Synced duplicate group to graph")
	return nil
}

// SyncGroups mirrors a batch of duplicate groups, continuing past individual
// failures so one bad group does not block the rest of the run.
func (s *GroupService) SyncGroups(ctx context.Context, groups []models.DuplicateGroup) error {
	ctx, span := tracing.StartSpan(ctx, "graph.GroupService.SyncGroups")
	defer span.End()

	var firstErr error
	for i := range groups {
		if err := s.SyncGroup(ctx, &groups[i]); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// GetGroupMembers returns the member node properties for a group id.
func (s *GroupService) GetGroupMembers(ctx context.Context, entityType string, groupID string) ([]map[string]any, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.GroupService.GetGroupMembers")
	defer span.End()

	cypher := fmt.Sprintf(`
		MATCH (related:%s)-[r:SAME_AS {group_id: $group_id}]->(primary:%s)
		RETURN related, primary
	`, sanitizeLabel(entityType), sanitizeLabel(entityType))

	res, err := s.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"group_id": groupID})
		if err != nil {
			return nil, err
		}

		seen := make(map[string]bool)
		var members []map[string]any
		for result.Next(ctx) {
			record := result.Record()
			for _, key := range []string{"related", "primary"} {
				node, ok := record.Get(key)
				if !ok {
					continue
				}
				n := node.(neo4j.Node)
				id, _ := n.Props["id"].(string)
				if id == "" || seen[id] {
					continue
				}
				seen[id] = true
				members = append(members, n.Props)
			}
		}
		return members, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get group members from graph: %w", err)
	}
	if res == nil {
		return nil, nil
	}
	return res.([]map[string]any), nil
}
