// ABOUTME: MCP tool handler implementations for the atlas server
// ABOUTME: Thin argument parsing over the place library, JSON responses
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/2389-research/atlas/internal/core"
	"github.com/2389-research/atlas/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	library *core.Library
	logger  *zap.Logger
}

// GetSavedPlaces handles the get_saved_places tool
func (h *Handlers) GetSavedPlaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := models.ListParams{
		Category: request.GetString("category", ""),
		Location: parseLocation(request),
		Limit:    request.GetInt("limit", 0),
	}

	places, err := h.library.List(ctx, params)
	if err != nil {
		return toolError("listing places", err), nil
	}
	return jsonResult(map[string]interface{}{
		"places": placeList(places),
		"count":  len(places),
	})
}

// SearchSavedPlaces handles the search_saved_places tool
func (h *Handlers) SearchSavedPlaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	params := models.SearchParams{
		Query:     query,
		Category:  request.GetString("category", ""),
		Location:  parseLocation(request),
		Sentiment: models.Sentiment(request.GetString("sentiment", "")),
		MinRating: request.GetFloat("min_rating", 0),
		Limit:     request.GetInt("limit", 10),
	}

	places, err := h.library.Search(ctx, params)
	if err != nil {
		return toolError("search", err), nil
	}
	return jsonResult(map[string]interface{}{
		"query":  query,
		"places": placeList(places),
		"count":  len(places),
	})
}

// GetRecommendations handles the get_recommendations tool
func (h *Handlers) GetRecommendations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := models.RecommendParams{
		Mood:     request.GetString("mood", ""),
		Category: request.GetString("category", ""),
		Location: parseLocation(request),
		Limit:    request.GetInt("limit", 5),
	}

	recs, err := h.library.Recommend(ctx, params)
	if err != nil {
		return toolError("recommendations", err), nil
	}
	return jsonResult(map[string]interface{}{
		"recommendations": recs,
		"count":           len(recs),
	})
}

// AnalyzePreferences handles the analyze_preferences tool
func (h *Handlers) AnalyzePreferences(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	analysis, err := h.library.Preferences(ctx)
	if err != nil {
		return toolError("preference analysis", err), nil
	}
	return jsonResult(analysis)
}

// GetPlacesBySentiment handles the get_places_by_sentiment tool
func (h *Handlers) GetPlacesBySentiment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sentiment, err := request.RequireString("sentiment")
	if err != nil {
		return mcp.NewToolResultError("sentiment argument is required and must be a string"), nil
	}

	params := models.SentimentParams{
		Sentiment: models.Sentiment(sentiment),
		MinRating: request.GetFloat("min_rating", 0),
		Limit:     request.GetInt("limit", 0),
	}

	places, err := h.library.BySentiment(ctx, params)
	if err != nil {
		return toolError("sentiment filter", err), nil
	}
	return jsonResult(map[string]interface{}{
		"sentiment": sentiment,
		"places":    placeList(places),
		"count":     len(places),
	})
}

// GetInsights handles the get_insights tool
func (h *Handlers) GetInsights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	insights, err := h.library.Insights(ctx)
	if err != nil {
		return toolError("insights", err), nil
	}
	return jsonResult(insights)
}

// SavePlace handles the save_place tool
func (h *Handlers) SavePlace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	placeID, err := request.RequireString("place_id")
	if err != nil {
		return mcp.NewToolResultError("place_id argument is required and must be a string"), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required and must be a string"), nil
	}
	lat, err := request.RequireFloat("lat")
	if err != nil {
		return mcp.NewToolResultError("lat argument is required and must be a number"), nil
	}
	lng, err := request.RequireFloat("lng")
	if err != nil {
		return mcp.NewToolResultError("lng argument is required and must be a number"), nil
	}

	place := models.Place{
		PlaceID:    placeID,
		Name:       name,
		Address:    request.GetString("address", ""),
		Category:   request.GetString("category", ""),
		Rating:     request.GetFloat("rating", 0),
		UserRating: request.GetFloat("user_rating", 0),
		Location:   models.Location{Lat: lat, Lng: lng},
		Tags:       request.GetStringSlice("tags", nil),
		Notes:      request.GetString("notes", ""),
		Sentiment:  models.Sentiment(request.GetString("sentiment", "")),
	}

	// Preserve visit history when updating an existing place.
	if existing, gerr := h.library.Get(placeID); gerr == nil {
		place.LastVisited = existing.LastVisited
		place.VisitCount = existing.VisitCount
	}

	if err := h.library.SavePlace(ctx, place); err != nil {
		return toolError("saving place", err), nil
	}
	h.logger.Info("saved place", zap.String("place_id", placeID), zap.String("name", name))
	return jsonResult(map[string]interface{}{
		"success": true,
		"place":   place,
	})
}

// RecordVisit handles the record_visit tool
func (h *Handlers) RecordVisit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	placeID, err := request.RequireString("place_id")
	if err != nil {
		return mcp.NewToolResultError("place_id argument is required and must be a string"), nil
	}

	date := time.Now()
	if raw := request.GetString("date", ""); raw != "" {
		parsed, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return mcp.NewToolResultError("date must be in RFC 3339 format"), nil
		}
		date = parsed
	}

	visit := models.Visit{
		Date:       date,
		Duration:   request.GetInt("duration", 0),
		Companions: request.GetStringSlice("companions", nil),
		Notes:      request.GetString("notes", ""),
		Rating:     request.GetFloat("rating", 0),
		Sentiment:  models.Sentiment(request.GetString("sentiment", "")),
	}

	place, err := h.library.RecordVisit(ctx, placeID, visit)
	if err != nil {
		return toolError("recording visit", err), nil
	}
	return jsonResult(map[string]interface{}{
		"success": true,
		"place":   place,
	})
}

// FindSimilarPlaces handles the find_similar_places tool
func (h *Handlers) FindSimilarPlaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	placeID, err := request.RequireString("place_id")
	if err != nil {
		return mcp.NewToolResultError("place_id argument is required and must be a string"), nil
	}
	limit := request.GetInt("limit", 5)

	places, err := h.library.Similar(ctx, placeID, limit)
	if err != nil {
		return toolError("finding similar places", err), nil
	}
	return jsonResult(map[string]interface{}{
		"place_id": placeID,
		"places":   placeList(places),
		"count":    len(places),
	})
}

// parseLocation extracts the optional nested location argument
func parseLocation(request mcp.CallToolRequest) *models.LocationFilter {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := args["location"].(map[string]any)
	if !ok {
		return nil
	}

	loc := &models.LocationFilter{}
	if v, ok := raw["lat"].(float64); ok {
		loc.Lat = v
	} else {
		return nil
	}
	if v, ok := raw["lng"].(float64); ok {
		loc.Lng = v
	} else {
		return nil
	}
	if v, ok := raw["radius"].(float64); ok {
		loc.Radius = v
	}
	return loc
}

// placeList keeps the places key a JSON array even when empty
func placeList(places []models.Place) []models.Place {
	if places == nil {
		return []models.Place{}
	}
	return places
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func toolError(op string, err error) *mcp.CallToolResult {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return mcp.NewToolResultError(verr.Error())
	case errors.Is(err, core.ErrNotFound):
		return mcp.NewToolResultError("place not found")
	default:
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", op, err))
	}
}
