package services

import (
	"encoding/json"
	"testing"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-assistant/models"
)

type toolSchema struct {
	Function struct {
		Name       string `json:"name"`
		Parameters struct {
			Properties map[string]map[string]interface{} `json:"properties"`
			Required   []string                          `json:"required"`
		} `json:"parameters"`
	} `json:"function"`
}

func TestToolDefinitions_MatchToolNames(t *testing.T) {
	tools := toolDefinitions()

	names := lo.Map(tools, func(tool openai.Tool, _ int) models.ToolName {
		return models.ToolName(tool.Function.Name)
	})
	assert.Equal(t, models.ToolNames, names)

	for _, tool := range tools {
		assert.Equal(t, openai.ToolTypeFunction, tool.Type)
		assert.True(t, models.ToolName(tool.Function.Name).Known())
	}
}

func TestToolDefinitions_Schema(t *testing.T) {
	raw, err := json.Marshal(toolDefinitions())
	require.NoError(t, err)

	var tools []toolSchema
	require.NoError(t, json.Unmarshal(raw, &tools))
	require.Len(t, tools, 5)

	byName := lo.KeyBy(tools, func(tool toolSchema) string {
		return tool.Function.Name
	})

	flights := byName["search_flights"].Function.Parameters
	assert.Equal(t, []string{"origin", "destination", "departure_date"}, flights.Required)
	assert.Equal(t, "date", flights.Properties["departure_date"]["format"])

	hotels := byName["search_hotels"].Function.Parameters
	assert.Equal(t, []string{"city_code", "checkin_date", "checkout_date"}, hotels.Required)

	tours := byName["recommend_tours"].Function.Parameters
	assert.Equal(t, []string{"start_date", "end_date"}, tours.Required)
	assert.Equal(t, "object", tours.Properties["user_location"]["type"])

	budget := byName["calculate_travel_budget"].Function.Parameters
	assert.Equal(t, []string{"flight_cost", "hotel_cost", "nights", "activities_cost"}, budget.Required)
	assert.Equal(t, "number", budget.Properties["nights"]["type"])
}
