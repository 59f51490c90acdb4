package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"mematlas/app/config"
	"mematlas/app/service/graph"
	"mematlas/app/service/location"
	"mematlas/app/service/recorder"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Service {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Transport = config.TransportStdio
	cfg.Server.Addr = ":0"
	cfg.Server.AllowedOrigins = "*"
	cfg.Storage.File = filepath.Join(t.TempDir(), "memory.json")

	di := do.New()
	do.ProvideValue(di, cfg)
	do.Provide(di, graph.New)
	do.Provide(di, location.New)
	do.Provide(di, recorder.New)

	svc, err := New(di)
	require.NoError(t, err)

	return svc
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args

	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.Len(t, result.Content, 1)

	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)

	return text.Text
}

func TestHandleCreateEntitiesAndReadGraph(t *testing.T) {
	svc := newTestServer(t)
	ctx := context.Background()

	result, err := svc.handleCreateEntities(ctx, callRequest("create_entities", map[string]any{
		"entities": []any{
			map[string]any{
				"name":         "Alice",
				"entityType":   "person",
				"observations": []any{"likes tea"},
			},
		},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var added []*graph.Entity
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &added))
	require.Len(t, added, 1)
	assert.Equal(t, "Alice", added[0].Name)

	result, err = svc.handleReadGraph(ctx, callRequest("read_graph", nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var stored graph.KnowledgeGraph
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &stored))
	require.Len(t, stored.Entities, 1)
	assert.Equal(t, []string{"likes tea"}, stored.Entities[0].Observations)
}

func TestHandleAddObservationsMissingEntity(t *testing.T) {
	svc := newTestServer(t)

	result, err := svc.handleAddObservations(context.Background(), callRequest("add_observations", map[string]any{
		"observations": []any{
			map[string]any{
				"entityName": "Nobody",
				"contents":   []any{"x"},
			},
		},
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Nobody")
}

func TestHandleSearchNodes(t *testing.T) {
	svc := newTestServer(t)
	ctx := context.Background()

	_, err := svc.handleCreateEntities(ctx, callRequest("create_entities", map[string]any{
		"entities": []any{
			map[string]any{"name": "Alice", "entityType": "person", "observations": []any{"likes tea"}},
			map[string]any{"name": "Bob", "entityType": "person", "observations": []any{"plays chess"}},
		},
	}))
	require.NoError(t, err)

	result, err := svc.handleSearchNodes(ctx, callRequest("search_nodes", map[string]any{
		"query": "TEA",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var found graph.KnowledgeGraph
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &found))
	require.Len(t, found.Entities, 1)
	assert.Equal(t, "Alice", found.Entities[0].Name)
}

func TestHandleSearchNodesMissingQuery(t *testing.T) {
	svc := newTestServer(t)

	result, err := svc.handleSearchNodes(context.Background(), callRequest("search_nodes", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleDeleteEntities(t *testing.T) {
	svc := newTestServer(t)
	ctx := context.Background()

	_, err := svc.handleCreateEntities(ctx, callRequest("create_entities", map[string]any{
		"entities": []any{
			map[string]any{"name": "Alice", "entityType": "person", "observations": []any{}},
		},
	}))
	require.NoError(t, err)

	result, err := svc.handleDeleteEntities(ctx, callRequest("delete_entities", map[string]any{
		"entityNames": []any{"Alice"},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "Entities deleted successfully", resultText(t, result))
}

func TestHandleExtractAndRecord(t *testing.T) {
	svc := newTestServer(t)

	result, err := svc.handleExtractAndRecord(context.Background(), callRequest("extract_and_record", map[string]any{
		"text":         "Austin, TX",
		"sourceEntity": "Trip",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var recorded recorder.Result
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &recorded))
	assert.Len(t, recorded.Spans, 1)
	assert.Len(t, recorded.AddedEntities, 2)
	assert.Len(t, recorded.AddedRelations, 2)
}
