package models

// Location is a resolved place: its provider code, display name and coordinates
type Location struct {
	Keyword   string  `json:"keyword"`
	Code      string  `json:"code"`
	CityName  string  `json:"city_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HasCoordinates reports whether the location carries a usable position
func (l Location) HasCoordinates() bool {
	return l.Latitude != 0 || l.Longitude != 0
}
