package services

import (
	"github.com/sashabaranov/go-openai"

	"travel-assistant/models"
)

// toolDefinitions returns the tool catalog offered to the LLM
func toolDefinitions() []openai.Tool {
	return []openai.Tool{
		functionTool(models.ToolSearchFlights, "Search for flights using Amadeus API", map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"origin":         map[string]interface{}{"type": "string"},
				"destination":    map[string]interface{}{"type": "string"},
				"departure_date": map[string]interface{}{"type": "string", "format": "date"},
			},
			"required": []string{"origin", "destination", "departure_date"},
		}),
		functionTool(models.ToolSearchHotels, "Search for hotels using Amadeus API", map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"city_code":     map[string]interface{}{"type": "string"},
				"checkin_date":  map[string]interface{}{"type": "string", "format": "date"},
				"checkout_date": map[string]interface{}{"type": "string", "format": "date"},
			},
			"required": []string{"city_code", "checkin_date", "checkout_date"},
		}),
		functionTool(models.ToolRecommendDestinations, "Recommend destinations using Amadeus API based on travel purpose and budget", map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"purpose": map[string]interface{}{"type": "string"},
				"budget":  map[string]interface{}{"type": "string"},
			},
			"required": []string{"purpose", "budget"},
		}),
		functionTool(models.ToolCalculateTravelBudget, "Estimate total travel cost for a given trip plan.", map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"flight_cost":     map[string]interface{}{"type": "number"},
				"hotel_cost":      map[string]interface{}{"type": "number"},
				"nights":          map[string]interface{}{"type": "number"},
				"activities_cost": map[string]interface{}{"type": "number"},
			},
			"required": []string{"flight_cost", "hotel_cost", "nights", "activities_cost"},
		}),
		functionTool(models.ToolRecommendTours, "Recommend tours based on city, category, and dates. Will auto-detect city from user location if city is missing.", map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"city":       map[string]interface{}{"type": "string"},
				"start_date": map[string]interface{}{"type": "string", "format": "date"},
				"end_date":   map[string]interface{}{"type": "string", "format": "date"},
				"category":   map[string]interface{}{"type": "string"},
				"user_location": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"latitude":  map[string]interface{}{"type": "number"},
						"longitude": map[string]interface{}{"type": "number"},
					},
				},
			},
			"required": []string{"start_date", "end_date"},
		}),
	}
}

func functionTool(name models.ToolName, description string, parameters map[string]interface{}) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        string(name),
			Description: description,
			Parameters:  parameters,
		},
	}
}
