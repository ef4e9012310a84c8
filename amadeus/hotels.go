package amadeus

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// maxHotelIDs caps the hotels priced per search to stay within rate limits
const maxHotelIDs = 20

// HotelSearch are the parameters of a hotel offer search
type HotelSearch struct {
	CityCode     string
	CheckInDate  string
	CheckOutDate string
	Adults       int
}

// HotelOffers groups the offers of one hotel
type HotelOffers struct {
	Hotel     Hotel        `json:"hotel"`
	Available bool         `json:"available"`
	Offers    []HotelOffer `json:"offers"`
}

// Hotel identifies a property
type Hotel struct {
	HotelID  string `json:"hotelId"`
	Name     string `json:"name"`
	CityCode string `json:"cityCode"`
}

// HotelOffer is a priced room offer
type HotelOffer struct {
	ID           string `json:"id"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	Price        Price  `json:"price"`
}

type hotelListEntry struct {
	HotelID  string `json:"hotelId"`
	Name     string `json:"name"`
	IATACode string `json:"iataCode"`
}

// SearchHotelOffers lists the hotels of a city and prices them for the stay.
func (c *Client) SearchHotelOffers(ctx context.Context, search HotelSearch) ([]HotelOffers, error) {
	ids, err := c.hotelIDsByCity(ctx, search.CityCode)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no hotels found for city %s", search.CityCode)
	}
	if len(ids) > maxHotelIDs {
		ids = ids[:maxHotelIDs]
	}

	adults := search.Adults
	if adults < 1 {
		adults = 1
	}

	query := url.Values{}
	query.Set("hotelIds", strings.Join(ids, ","))
	query.Set("checkInDate", search.CheckInDate)
	query.Set("checkOutDate", search.CheckOutDate)
	query.Set("adults", strconv.Itoa(adults))
	query.Set("bestRateOnly", "true")

	var resp dataResponse[HotelOffers]
	if err := c.get(ctx, "hotel_offers", "/v3/shopping/hotel-offers", query, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) hotelIDsByCity(ctx context.Context, cityCode string) ([]string, error) {
	query := url.Values{}
	query.Set("cityCode", cityCode)

	var resp dataResponse[hotelListEntry]
	if err := c.get(ctx, "hotel_list", "/v1/reference-data/locations/hotels/by-city", query, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Data))
	for _, h := range resp.Data {
		ids = append(ids, h.HotelID)
	}
	return ids, nil
}
