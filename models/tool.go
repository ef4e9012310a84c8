package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

// ToolName identifies one of the callable tools
type ToolName string

const (
	ToolSearchFlights         ToolName = "search_flights"
	ToolSearchHotels          ToolName = "search_hotels"
	ToolRecommendDestinations ToolName = "recommend_destinations"
	ToolCalculateTravelBudget ToolName = "calculate_travel_budget"
	ToolRecommendTours        ToolName = "recommend_tours"
)

// ToolNames lists the tool catalog in its published order
var ToolNames = []ToolName{
	ToolSearchFlights,
	ToolSearchHotels,
	ToolRecommendDestinations,
	ToolCalculateTravelBudget,
	ToolRecommendTours,
}

// toolArguments maps each tool to a constructor of its typed arguments
var toolArguments = map[ToolName]func() interface{}{
	ToolSearchFlights:         func() interface{} { return &FlightSearchArgs{} },
	ToolSearchHotels:          func() interface{} { return &HotelSearchArgs{} },
	ToolRecommendDestinations: func() interface{} { return &DestinationArgs{} },
	ToolCalculateTravelBudget: func() interface{} { return &BudgetArgs{} },
	ToolRecommendTours:        func() interface{} { return &TourArgs{} },
}

// Known reports whether the name belongs to the tool catalog
func (n ToolName) Known() bool {
	_, ok := toolArguments[n]
	return ok
}

// ToolInvocation is a tool call chosen by the LLM. Arguments holds a pointer
// to the tool's typed argument struct, or nil when decoding failed.
type ToolInvocation struct {
	ID        string
	Name      ToolName
	Arguments interface{}
}

// FlightSearchArgs are the arguments of search_flights
type FlightSearchArgs struct {
	Origin        string `json:"origin" validate:"required"`
	Destination   string `json:"destination" validate:"required"`
	DepartureDate string `json:"departure_date" validate:"required"`
}

// HotelSearchArgs are the arguments of search_hotels
type HotelSearchArgs struct {
	CityCode     string `json:"city_code" validate:"required"`
	CheckinDate  string `json:"checkin_date" validate:"required"`
	CheckoutDate string `json:"checkout_date" validate:"required"`
}

// DestinationArgs are the arguments of recommend_destinations
type DestinationArgs struct {
	Purpose string      `json:"purpose" validate:"required"`
	Budget  LooseString `json:"budget" validate:"required"`
}

// BudgetArgs are the arguments of calculate_travel_budget
type BudgetArgs struct {
	FlightCost     *float64 `json:"flight_cost" validate:"required,gte=0"`
	HotelCost      *float64 `json:"hotel_cost" validate:"required,gte=0"`
	Nights         *float64 `json:"nights" validate:"required,gte=0"`
	ActivitiesCost *float64 `json:"activities_cost" validate:"required,gte=0"`
}

// TourArgs are the arguments of recommend_tours
type TourArgs struct {
	City         string        `json:"city,omitempty"`
	StartDate    string        `json:"start_date" validate:"required"`
	EndDate      string        `json:"end_date" validate:"required"`
	Category     string        `json:"category,omitempty"`
	UserLocation *UserLocation `json:"user_location,omitempty"`
}

// LooseString accepts a JSON string or number. Models frequently send
// budgets such as 2000 unquoted.
type LooseString string

// UnmarshalJSON implements json.Unmarshaler
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = LooseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*s = LooseString(n.String())
	return nil
}

// DecodeToolInvocation parses the raw argument payload of a tool call as
// strict JSON into the tool's typed arguments. Unknown tool names return the
// invocation with nil Arguments and ErrUnknownTool.
func DecodeToolInvocation(id, name, rawArguments string) (ToolInvocation, error) {
	inv := ToolInvocation{ID: id, Name: ToolName(name)}

	newArgs, ok := toolArguments[inv.Name]
	if !ok {
		return inv, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	raw := strings.TrimSpace(rawArguments)
	if raw == "" {
		raw = "{}"
	}
	if !strings.HasPrefix(raw, "{") {
		return inv, fmt.Errorf("%w: arguments must be a JSON object", ErrInvalidArguments)
	}

	args := newArgs()
	if err := json.Unmarshal([]byte(raw), args); err != nil {
		return inv, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	trimStrings(args)

	inv.Arguments = args
	return inv, nil
}

func trimStrings(args interface{}) {
	switch a := args.(type) {
	case *FlightSearchArgs:
		a.Origin = strings.TrimSpace(a.Origin)
		a.Destination = strings.TrimSpace(a.Destination)
		a.DepartureDate = strings.TrimSpace(a.DepartureDate)
	case *HotelSearchArgs:
		a.CityCode = strings.TrimSpace(a.CityCode)
		a.CheckinDate = strings.TrimSpace(a.CheckinDate)
		a.CheckoutDate = strings.TrimSpace(a.CheckoutDate)
	case *DestinationArgs:
		a.Purpose = strings.TrimSpace(a.Purpose)
		a.Budget = LooseString(strings.TrimSpace(string(a.Budget)))
	case *TourArgs:
		a.City = strings.TrimSpace(a.City)
		a.StartDate = strings.TrimSpace(a.StartDate)
		a.EndDate = strings.TrimSpace(a.EndDate)
		a.Category = strings.TrimSpace(a.Category)
	}
}
