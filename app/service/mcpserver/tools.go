package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"mematlas/app/service/graph"

	"github.com/mark3labs/mcp-go/mcp"
)

var entityItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":       map[string]any{"type": "string", "description": "Unique entity name"},
		"entityType": map[string]any{"type": "string", "description": "Free-form type label, e.g. person or location"},
		"observations": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Observation contents attached to the entity",
		},
	},
	"required": []string{"name", "entityType", "observations"},
}

var relationItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"from":         map[string]any{"type": "string", "description": "Name of the entity the relation starts from"},
		"to":           map[string]any{"type": "string", "description": "Name of the entity the relation points to"},
		"relationType": map[string]any{"type": "string", "description": "Relation type in active voice"},
	},
	"required": []string{"from", "to", "relationType"},
}

func (s *Service) registerTools() {
	s.mcp.AddTool(mcp.NewTool("create_entities",
		mcp.WithDescription("Create multiple new entities in the knowledge graph. Entities whose name already exists are skipped."),
		mcp.WithArray("entities",
			mcp.Required(),
			mcp.Description("Entities to create"),
			mcp.Items(entityItem),
		),
	), s.handleCreateEntities)

	s.mcp.AddTool(mcp.NewTool("create_relations",
		mcp.WithDescription("Create multiple new relations between entities in the knowledge graph. Relations should be in active voice. Exact duplicates of existing relations are skipped."),
		mcp.WithArray("relations",
			mcp.Required(),
			mcp.Description("Relations to create"),
			mcp.Items(relationItem),
		),
	), s.handleCreateRelations)

	s.mcp.AddTool(mcp.NewTool("add_observations",
		mcp.WithDescription("Add new observations to existing entities in the knowledge graph. Fails if any referenced entity does not exist."),
		mcp.WithArray("observations",
			mcp.Required(),
			mcp.Description("Observations to add, grouped by entity"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"entityName": map[string]any{"type": "string", "description": "Name of the entity to add observations to"},
					"contents": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Observation contents to add",
					},
				},
				"required": []string{"entityName", "contents"},
			}),
		),
	), s.handleAddObservations)

	s.mcp.AddTool(mcp.NewTool("delete_entities",
		mcp.WithDescription("Delete multiple entities and their associated relations from the knowledge graph."),
		mcp.WithArray("entityNames",
			mcp.Required(),
			mcp.Description("Names of entities to delete"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), s.handleDeleteEntities)

	s.mcp.AddTool(mcp.NewTool("delete_observations",
		mcp.WithDescription("Delete specific observations from entities in the knowledge graph. Entries for missing entities are ignored."),
		mcp.WithArray("deletions",
			mcp.Required(),
			mcp.Description("Observations to delete, grouped by entity"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"entityName": map[string]any{"type": "string", "description": "Name of the entity to delete observations from"},
					"observations": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Observation contents to delete",
					},
				},
				"required": []string{"entityName", "observations"},
			}),
		),
	), s.handleDeleteObservations)

	s.mcp.AddTool(mcp.NewTool("delete_relations",
		mcp.WithDescription("Delete multiple relations from the knowledge graph."),
		mcp.WithArray("relations",
			mcp.Required(),
			mcp.Description("Relations to delete, matched exactly on from, to and relationType"),
			mcp.Items(relationItem),
		),
	), s.handleDeleteRelations)

	s.mcp.AddTool(mcp.NewTool("read_graph",
		mcp.WithDescription("Read the entire knowledge graph."),
	), s.handleReadGraph)

	s.mcp.AddTool(mcp.NewTool("search_nodes",
		mcp.WithDescription("Search for nodes in the knowledge graph. Matches case-insensitively against entity names, types and observation contents."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
	), s.handleSearchNodes)

	s.mcp.AddTool(mcp.NewTool("open_nodes",
		mcp.WithDescription("Open specific nodes in the knowledge graph by their names."),
		mcp.WithArray("names",
			mcp.Required(),
			mcp.Description("Entity names to open"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), s.handleOpenNodes)

	s.mcp.AddTool(mcp.NewTool("extract_and_record",
		mcp.WithDescription("Extract location mentions (cities, addresses, landmarks, states, countries) from a text and record them in the knowledge graph as location entities."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to scan for location mentions"),
		),
		mcp.WithString("sourceEntity",
			mcp.Description("Optional entity name to link found locations to via mentions_location relations"),
		),
	), s.handleExtractAndRecord)
}

func (s *Service) handleCreateEntities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Entities []*graph.Entity `json:"entities"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	added, err := s.graphSvc.CreateEntities(args.Entities)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(added)
}

func (s *Service) handleCreateRelations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Relations []*graph.Relation `json:"relations"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	added, err := s.graphSvc.CreateRelations(args.Relations)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(added)
}

func (s *Service) handleAddObservations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Observations []graph.AddObservationsRequest `json:"observations"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results, err := s.graphSvc.AddObservations(args.Observations)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(results)
}

func (s *Service) handleDeleteEntities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		EntityNames []string `json:"entityNames"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.graphSvc.DeleteEntities(args.EntityNames); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Entities deleted successfully"), nil
}

func (s *Service) handleDeleteObservations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Deletions []graph.DeleteObservationsRequest `json:"deletions"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.graphSvc.DeleteObservations(args.Deletions); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Observations deleted successfully"), nil
}

func (s *Service) handleDeleteRelations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Relations []*graph.Relation `json:"relations"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.graphSvc.DeleteRelations(args.Relations); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Relations deleted successfully"), nil
}

func (s *Service) handleReadGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.graphSvc.ReadGraph()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(result)
}

func (s *Service) handleSearchNodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.graphSvc.SearchNodes(query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(result)
}

func (s *Service) handleOpenNodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Names []string `json:"names"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.graphSvc.OpenNodes(args.Names)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(result)
}

func (s *Service) handleExtractAndRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sourceEntity := request.GetString("sourceEntity", "")

	result, err := s.recorderSvc.Record(text, sourceEntity)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(result)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return mcp.NewToolResultText(string(data)), nil
}
