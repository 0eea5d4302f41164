package models

// Coordinates represents a geographical point defined by its longitude and latitude.
type Coordinates struct {
	Longitude float64 // Longitude of the geographical point, degrees east.
	Latitude  float64 // Latitude of the geographical point, degrees north.
}
