package models

// Site represents a station whose crustal profile has to be resolved.
type Site struct {
	ID          int         // ID is the unique identifier for the site.
	Code        string      // Code is the network/station code, e.g. "IU.ANMO".
	Coordinates Coordinates // Coordinates is the location of the site.
}
