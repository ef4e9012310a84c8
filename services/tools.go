package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"travel-assistant/amadeus"
	"travel-assistant/models"
)

const (
	maxFlights    = 3
	maxHotels     = 3
	maxActivities = 5
)

// TravelProvider is the travel data provider used by the tools.
// *amadeus.Client satisfies it.
type TravelProvider interface {
	LocationProvider
	SearchFlightOffers(ctx context.Context, search amadeus.FlightSearch) ([]amadeus.FlightOffer, error)
	SearchHotelOffers(ctx context.Context, search amadeus.HotelSearch) ([]amadeus.HotelOffers, error)
	SearchActivities(ctx context.Context, search amadeus.ActivitySearch) ([]amadeus.Activity, error)
}

type toolHandler func(ctx context.Context, args interface{}) models.ToolResult

// ToolExecutor runs tool invocations against the provider and shapes the
// results for the LLM. Failures are returned as error results, never as Go errors.
type ToolExecutor struct {
	provider     TravelProvider
	locations    *LocationResolver
	destinations *DestinationCatalog
	validate     *validator.Validate
	handlers     map[models.ToolName]toolHandler
}

// NewToolExecutor creates a ToolExecutor
func NewToolExecutor(provider TravelProvider, locations *LocationResolver, destinations *DestinationCatalog) *ToolExecutor {
	e := &ToolExecutor{
		provider:     provider,
		locations:    locations,
		destinations: destinations,
		validate:     newValidator(),
	}
	e.handlers = map[models.ToolName]toolHandler{
		models.ToolSearchFlights:         handle(e.SearchFlights),
		models.ToolSearchHotels:          handle(e.SearchHotels),
		models.ToolRecommendDestinations: handle(e.RecommendDestinations),
		models.ToolCalculateTravelBudget: handle(e.CalculateTravelBudget),
		models.ToolRecommendTours:        handle(e.RecommendTours),
	}
	return e
}

func handle[T any](fn func(context.Context, *T) models.ToolResult) toolHandler {
	return func(ctx context.Context, args interface{}) models.ToolResult {
		typed, ok := args.(*T)
		if !ok || typed == nil {
			return models.ToolError("Invalid arguments")
		}
		return fn(ctx, typed)
	}
}

// Execute validates the invocation's arguments and runs its tool
func (e *ToolExecutor) Execute(ctx context.Context, inv models.ToolInvocation) models.ToolResult {
	log.Printf("Executing tool: %s with arguments: %+v", inv.Name, inv.Arguments)

	handler, ok := e.handlers[inv.Name]
	if !ok {
		recordToolCall("unknown", "error")
		return models.ToolError("Unknown tool")
	}

	var result models.ToolResult
	if err := e.validateArgs(inv.Arguments); err != nil {
		result = models.ToolError("Invalid arguments for %s: %s", inv.Name, describeValidation(err))
	} else {
		result = handler(ctx, inv.Arguments)
	}

	outcome := "success"
	if result.Failed() {
		outcome = "error"
		log.Printf("Tool %s failed: %s", inv.Name, result.Error)
	}
	recordToolCall(string(inv.Name), outcome)
	return result
}

func (e *ToolExecutor) validateArgs(args interface{}) error {
	if args == nil {
		return fmt.Errorf("missing arguments")
	}
	return e.validate.Struct(args)
}

// SearchFlights returns up to three flight offers for one adult
func (e *ToolExecutor) SearchFlights(ctx context.Context, args *models.FlightSearchArgs) models.ToolResult {
	offers, err := e.provider.SearchFlightOffers(ctx, amadeus.FlightSearch{
		Origin:        args.Origin,
		Destination:   args.Destination,
		DepartureDate: args.DepartureDate,
		Adults:        1,
		Max:           maxFlights,
	})
	if err != nil {
		return providerFailure("flights", err)
	}

	usable := lo.Filter(offers, func(o amadeus.FlightOffer, _ int) bool {
		return len(o.Itineraries) > 0 && len(o.Itineraries[0].Segments) > 0
	})
	flights := lo.Map(lo.Subset(usable, 0, maxFlights), func(o amadeus.FlightOffer, _ int) models.FlightSummary {
		segments := o.Itineraries[0].Segments
		first, last := segments[0], segments[len(segments)-1]
		return models.FlightSummary{
			Airline:   lo.FirstOrEmpty(o.ValidatingAirlineCodes),
			Price:     o.Price.Total,
			Departure: flightEndpoint(first.Departure),
			Arrival:   flightEndpoint(last.Arrival),
		}
	})

	return models.ToolSuccess(models.FlightResults{Flights: flights})
}

func flightEndpoint(p amadeus.FlightEndpoint) models.FlightEndpoint {
	return models.FlightEndpoint{IATACode: p.IATACode, Terminal: p.Terminal, At: p.At}
}

// SearchHotels returns up to three priced hotels for one adult
func (e *ToolExecutor) SearchHotels(ctx context.Context, args *models.HotelSearchArgs) models.ToolResult {
	results, err := e.provider.SearchHotelOffers(ctx, amadeus.HotelSearch{
		CityCode:     args.CityCode,
		CheckInDate:  args.CheckinDate,
		CheckOutDate: args.CheckoutDate,
		Adults:       1,
	})
	if err != nil {
		return providerFailure("hotels", err)
	}

	priced := lo.Filter(results, func(h amadeus.HotelOffers, _ int) bool {
		return len(h.Offers) > 0
	})
	hotels := lo.Map(lo.Subset(priced, 0, maxHotels), func(h amadeus.HotelOffers, _ int) models.HotelSummary {
		offer := h.Offers[0]
		return models.HotelSummary{
			Name:     h.Hotel.Name,
			Price:    offer.Price.Total,
			CheckIn:  offer.CheckInDate,
			CheckOut: offer.CheckOutDate,
		}
	})

	return models.ToolSuccess(models.HotelResults{Hotels: hotels})
}

// RecommendDestinations picks a destination for the travel purpose
func (e *ToolExecutor) RecommendDestinations(_ context.Context, args *models.DestinationArgs) models.ToolResult {
	return models.ToolSuccess(e.destinations.Recommend(args.Purpose, string(args.Budget)))
}

// CalculateTravelBudget returns flight + hotel per night * nights + activities
func (e *ToolExecutor) CalculateTravelBudget(_ context.Context, args *models.BudgetArgs) models.ToolResult {
	flight, hotel, nights, activities := *args.FlightCost, *args.HotelCost, *args.Nights, *args.ActivitiesCost
	total := flight + hotel*nights + activities
	return models.ToolSuccess(models.BudgetEstimate{TotalEstimate: total})
}

// RecommendTours finds activities around a city. When the city is missing it
// is derived from the user's location.
func (e *ToolExecutor) RecommendTours(ctx context.Context, args *models.TourArgs) models.ToolResult {
	city := args.City
	if city == "" && args.UserLocation != nil {
		if name, ok := e.locations.ReverseGeocode(ctx, args.UserLocation.Latitude, args.UserLocation.Longitude); ok {
			city = name
		}
	}
	if city == "" {
		return models.ToolError("City is required and could not be inferred from location.")
	}

	lat, lon, ok := e.locations.CoordinatesFor(ctx, city)
	if !ok {
		return models.ToolError("Could not find coordinates for %s", city)
	}

	activities, err := e.provider.SearchActivities(ctx, amadeus.ActivitySearch{
		Latitude:  lat,
		Longitude: lon,
		StartDate: args.StartDate,
		EndDate:   args.EndDate,
	})
	if err != nil {
		return providerFailure("activities", err)
	}

	category := strings.ToLower(args.Category)
	matching := lo.Filter(activities, func(a amadeus.Activity, _ int) bool {
		return category == "" ||
			strings.Contains(strings.ToLower(a.Name), category) ||
			strings.Contains(strings.ToLower(a.ShortDescription), category)
	})

	summaries := lo.Map(lo.Subset(matching, 0, maxActivities), func(a amadeus.Activity, _ int) models.ActivitySummary {
		return models.ActivitySummary{
			Name:             a.Name,
			ShortDescription: lo.CoalesceOrEmpty(a.ShortDescription, "No description"),
			Price:            a.Price.Amount,
			Currency:         a.Price.CurrencyCode,
			BookingLink:      a.BookingLink,
		}
	})
	if len(summaries) == 0 {
		summaries = []models.ActivitySummary{{Message: "No matching activities found."}}
	}

	return models.ToolSuccess(models.TourResults{Activities: summaries, City: city})
}

func providerFailure(what string, err error) models.ToolResult {
	if amadeus.IsTimeout(err) {
		return models.ToolError("Failed to fetch %s: the travel provider timed out, please try again.", what)
	}
	return models.ToolError("Failed to fetch %s: %v", what, err)
}
