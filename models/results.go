package models

import (
	"encoding/json"
	"fmt"
)

// ToolResult carries either a tool's success payload or an error message,
// never both.
type ToolResult struct {
	Data  interface{}
	Error string
}

// ToolError builds a failed ToolResult
func ToolError(format string, args ...interface{}) ToolResult {
	return ToolResult{Error: fmt.Sprintf(format, args...)}
}

// ToolSuccess builds a successful ToolResult
func ToolSuccess(data interface{}) ToolResult {
	return ToolResult{Data: data}
}

// Failed reports whether the result is an error
func (r ToolResult) Failed() bool {
	return r.Error != ""
}

// MarshalJSON renders the payload, or {"error": ...} for failures
func (r ToolResult) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(map[string]string{"error": r.Error})
	}
	return json.Marshal(r.Data)
}

// String renders the result as the JSON text handed back to the LLM
func (r ToolResult) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(b)
}

// FlightEndpoint is a departure or arrival point of a flight
type FlightEndpoint struct {
	IATACode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

// FlightSummary is the compact projection of one flight offer
type FlightSummary struct {
	Airline   string         `json:"airline"`
	Price     string         `json:"price"`
	Departure FlightEndpoint `json:"departure"`
	Arrival   FlightEndpoint `json:"arrival"`
}

// FlightResults is the payload of search_flights
type FlightResults struct {
	Flights []FlightSummary `json:"flights"`
}

// HotelSummary is the compact projection of one hotel offer
type HotelSummary struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

// HotelResults is the payload of search_hotels
type HotelResults struct {
	Hotels []HotelSummary `json:"hotels"`
}

// DestinationRecommendation is one suggested destination
type DestinationRecommendation struct {
	Place           string `json:"place"`
	Reason          string `json:"reason"`
	EstimatedBudget string `json:"estimated_budget"`
}

// DestinationResults is the payload of recommend_destinations
type DestinationResults struct {
	Recommendations []DestinationRecommendation `json:"recommendations"`
}

// BudgetEstimate is the payload of calculate_travel_budget
type BudgetEstimate struct {
	TotalEstimate float64 `json:"total_estimate"`
}

// ActivitySummary is one bookable activity, or an informational placeholder
// when only Message is set.
type ActivitySummary struct {
	Name             string `json:"name,omitempty"`
	ShortDescription string `json:"shortDescription,omitempty"`
	Price            string `json:"price,omitempty"`
	Currency         string `json:"currency,omitempty"`
	BookingLink      string `json:"bookingLink,omitempty"`
	Message          string `json:"message,omitempty"`
}

// TourResults is the payload of recommend_tours
type TourResults struct {
	Activities []ActivitySummary `json:"activities"`
	City       string            `json:"city"`
}
