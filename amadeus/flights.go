package amadeus

import (
	"context"
	"net/url"
	"strconv"
)

// FlightSearch are the parameters of a one-way flight offer search
type FlightSearch struct {
	Origin        string
	Destination   string
	DepartureDate string
	Adults        int
	Max           int
}

// FlightOffer is a priced flight offer
type FlightOffer struct {
	ID                     string      `json:"id"`
	Price                  Price       `json:"price"`
	Itineraries            []Itinerary `json:"itineraries"`
	ValidatingAirlineCodes []string    `json:"validatingAirlineCodes"`
}

// Price of an offer. Amounts are decimal strings as sent by the API.
type Price struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	GrandTotal string `json:"grandTotal"`
}

// Itinerary is one direction of a flight offer
type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

// Segment is a single flight leg
type Segment struct {
	Departure   FlightEndpoint `json:"departure"`
	Arrival     FlightEndpoint `json:"arrival"`
	CarrierCode string         `json:"carrierCode"`
	Number      string         `json:"number"`
}

// FlightEndpoint is where and when a segment departs or arrives
type FlightEndpoint struct {
	IATACode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

// SearchFlightOffers searches flight offers via the Flight Offers Search API
func (c *Client) SearchFlightOffers(ctx context.Context, search FlightSearch) ([]FlightOffer, error) {
	adults := search.Adults
	if adults < 1 {
		adults = 1
	}

	query := url.Values{}
	query.Set("originLocationCode", search.Origin)
	query.Set("destinationLocationCode", search.Destination)
	query.Set("departureDate", search.DepartureDate)
	query.Set("adults", strconv.Itoa(adults))
	if search.Max > 0 {
		query.Set("max", strconv.Itoa(search.Max))
	}

	var resp dataResponse[FlightOffer]
	if err := c.get(ctx, "flight_offers", "/v2/shopping/flight-offers", query, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
