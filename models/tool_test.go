package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeToolInvocation_Flights(t *testing.T) {
	inv, err := DecodeToolInvocation("call_1", "search_flights",
		`{"origin":" New York ","destination":"LHR","departure_date":"March 3rd"}`)
	require.NoError(t, err)

	assert.Equal(t, "call_1", inv.ID)
	assert.Equal(t, ToolSearchFlights, inv.Name)
	args, ok := inv.Arguments.(*FlightSearchArgs)
	require.True(t, ok)
	assert.Equal(t, "New York", args.Origin)
	assert.Equal(t, "LHR", args.Destination)
	assert.Equal(t, "March 3rd", args.DepartureDate)
}

func TestDecodeToolInvocation_UnknownTool(t *testing.T) {
	inv, err := DecodeToolInvocation("call_1", "book_spaceship", `{}`)
	assert.True(t, errors.Is(err, ErrUnknownTool))
	assert.Equal(t, ToolName("book_spaceship"), inv.Name)
	assert.Nil(t, inv.Arguments)
}

func TestDecodeToolInvocation_RejectsNonJSON(t *testing.T) {
	cases := []string{
		`{'origin': 'JFK'}`,
		`__import__('os').system('ls')`,
		`["JFK"]`,
		`{"origin": "JFK"} trailing`,
		`{"nights": "three"}`,
	}
	for _, raw := range cases {
		name := "search_flights"
		if raw == `{"nights": "three"}` {
			name = "calculate_travel_budget"
		}
		_, err := DecodeToolInvocation("id", name, raw)
		assert.Truef(t, errors.Is(err, ErrInvalidArguments), "payload %q should be rejected", raw)
	}
}

func TestDecodeToolInvocation_EmptyArgumentsDecodeToZeroValue(t *testing.T) {
	inv, err := DecodeToolInvocation("id", "recommend_tours", "")
	require.NoError(t, err)
	args := inv.Arguments.(*TourArgs)
	assert.Empty(t, args.City)
	assert.Nil(t, args.UserLocation)
}

func TestDecodeToolInvocation_BudgetNumbers(t *testing.T) {
	inv, err := DecodeToolInvocation("id", "calculate_travel_budget",
		`{"flight_cost":500,"hotel_cost":100,"nights":3,"activities_cost":0}`)
	require.NoError(t, err)
	args := inv.Arguments.(*BudgetArgs)
	require.NotNil(t, args.ActivitiesCost)
	assert.Equal(t, 0.0, *args.ActivitiesCost)
	assert.Equal(t, 3.0, *args.Nights)
}

func TestLooseString(t *testing.T) {
	var args DestinationArgs
	require.NoError(t, json.Unmarshal([]byte(`{"purpose":"romantic","budget":2000}`), &args))
	assert.Equal(t, LooseString("2000"), args.Budget)

	require.NoError(t, json.Unmarshal([]byte(`{"purpose":"romantic","budget":"$2,000"}`), &args))
	assert.Equal(t, LooseString("$2,000"), args.Budget)

	assert.Error(t, json.Unmarshal([]byte(`{"budget":true}`), &args))
}

func TestToolResult_JSON(t *testing.T) {
	ok := ToolSuccess(BudgetEstimate{TotalEstimate: 850})
	assert.JSONEq(t, `{"total_estimate":850}`, ok.String())
	assert.False(t, ok.Failed())

	failed := ToolError("Unknown tool")
	assert.JSONEq(t, `{"error":"Unknown tool"}`, failed.String())
	assert.True(t, failed.Failed())
}
