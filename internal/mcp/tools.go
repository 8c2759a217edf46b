// ABOUTME: MCP tool definitions and registration for the atlas server
// ABOUTME: Defines JSON schemas for all 9 place tools
package mcp

import (
	"go.uber.org/zap"

	"github.com/2389-research/atlas/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func locationSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Restrict results to a radius (meters) around a coordinate",
		"properties": map[string]interface{}{
			"lat":    map[string]interface{}{"type": "number", "description": "Latitude in degrees"},
			"lng":    map[string]interface{}{"type": "number", "description": "Longitude in degrees"},
			"radius": map[string]interface{}{"type": "number", "description": "Radius in meters (default: 5000)"},
		},
		"required": []string{"lat", "lng"},
	}
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, library *core.Library, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	handlers := &Handlers{
		library: library,
		logger:  logger,
	}

	// 1. get_saved_places - List the user's saved places
	server.AddTool(mcp.Tool{
		Name:        "get_saved_places",
		Description: "Get the user's saved places, optionally filtered by category and location.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Only return places in this category (e.g. 'Restaurant', 'Beach')",
				},
				"location": locationSchema(),
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of places to return",
				},
			},
		},
	}, handlers.GetSavedPlaces)

	// 2. search_saved_places - Semantic search over saved places
	server.AddTool(mcp.Tool{
		Name:        "search_saved_places",
		Description: "Search saved places by meaning. Uses vector similarity when available and falls back to graph and text matching.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text search query",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Restrict results to this category",
				},
				"location": locationSchema(),
				"sentiment": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"positive", "negative", "neutral"},
					"description": "Restrict results to places with this sentiment",
				},
				"min_rating": map[string]interface{}{
					"type":        "number",
					"description": "Minimum effective rating (0-5)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results (default: 10)",
					"default":     10,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchSavedPlaces)

	// 3. get_recommendations - Mood-aware recommendations
	server.AddTool(mcp.Tool{
		Name:        "get_recommendations",
		Description: "Recommend saved places scored by rating, visit history, sentiment, recency, and mood fit.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mood": map[string]interface{}{
					"type":        "string",
					"enum":        core.Moods(),
					"description": "Current mood to match places against",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Restrict recommendations to this category",
				},
				"location": locationSchema(),
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of recommendations (default: 5)",
					"default":     5,
				},
			},
		},
	}, handlers.GetRecommendations)

	// 4. analyze_preferences - Full preference breakdown
	server.AddTool(mcp.Tool{
		Name:        "analyze_preferences",
		Description: "Analyze the user's place preferences: top categories and locations, rating and sentiment distributions, visit patterns, and trends.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.AnalyzePreferences)

	// 5. get_places_by_sentiment - Filter by sentiment
	server.AddTool(mcp.Tool{
		Name:        "get_places_by_sentiment",
		Description: "Get saved places the user felt a particular way about.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sentiment": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"positive", "negative", "neutral"},
					"description": "Sentiment to filter by",
				},
				"min_rating": map[string]interface{}{
					"type":        "number",
					"description": "Minimum effective rating (0-5)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of places to return",
				},
			},
			Required: []string{"sentiment"},
		},
	}, handlers.GetPlacesBySentiment)

	// 6. get_insights - High-level summary
	server.AddTool(mcp.Tool{
		Name:        "get_insights",
		Description: "Get a high-level summary of the user's places: totals, favorites, recent discoveries, trends, and general recommendations.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetInsights)

	// 7. save_place - Store or update a place
	server.AddTool(mcp.Tool{
		Name:        "save_place",
		Description: "Save a place to the user's collection or update an existing one.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"place_id": map[string]interface{}{
					"type":        "string",
					"description": "Stable external place identifier",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Place name",
				},
				"address": map[string]interface{}{
					"type":        "string",
					"description": "Formatted address",
				},
				"lat": map[string]interface{}{
					"type":        "number",
					"description": "Latitude in degrees",
				},
				"lng": map[string]interface{}{
					"type":        "number",
					"description": "Longitude in degrees",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Place category (e.g. 'Restaurant', 'Park')",
				},
				"rating": map[string]interface{}{
					"type":        "number",
					"description": "Public rating from the place provider (0-5)",
				},
				"user_rating": map[string]interface{}{
					"type":        "number",
					"description": "The user's own rating (0-5)",
				},
				"tags": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Free-form tags",
				},
				"notes": map[string]interface{}{
					"type":        "string",
					"description": "The user's notes about the place",
				},
				"sentiment": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"positive", "negative", "neutral"},
					"description": "Overall feeling about the place",
				},
			},
			Required: []string{"place_id", "name", "lat", "lng"},
		},
	}, handlers.SavePlace)

	// 8. record_visit - Log a visit to a saved place
	server.AddTool(mcp.Tool{
		Name:        "record_visit",
		Description: "Record a visit to a saved place, updating its visit count, last-visited date, rating, and sentiment.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"place_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the visited place",
				},
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Visit date in RFC 3339 format (default: now)",
				},
				"rating": map[string]interface{}{
					"type":        "number",
					"description": "Rating for this visit (0-5)",
				},
				"sentiment": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"positive", "negative", "neutral"},
					"description": "How the visit felt",
				},
				"notes": map[string]interface{}{
					"type":        "string",
					"description": "Notes about the visit",
				},
				"companions": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Who came along",
				},
				"duration": map[string]interface{}{
					"type":        "number",
					"description": "Visit duration in minutes",
				},
			},
			Required: []string{"place_id"},
		},
	}, handlers.RecordVisit)

	// 9. find_similar_places - Neighbors of a saved place
	server.AddTool(mcp.Tool{
		Name:        "find_similar_places",
		Description: "Find saved places similar to a given one, by embedding similarity when available or shared category otherwise.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"place_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the reference place",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of similar places (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"place_id"},
		},
	}, handlers.FindSimilarPlaces)

	return handlers
}
