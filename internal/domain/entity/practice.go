package entity

import "time"

// Practice is a professional's physical location on the "find a professional"
// map. Lat/Lon are present only when geocoding succeeded; creation fails hard
// when the address cannot be geocoded.
type Practice struct {
	ID        string
	OwnerID   string
	Name      string
	Specialty string
	Address   string
	City      string
	Country   string
	Phone     string
	Website   string
	Lat       *float64
	Lon       *float64
	ShowOnMap bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OnMap reports whether the practice appears in the public map listing.
func (p *Practice) OnMap() bool {
	return p.ShowOnMap && p.Lat != nil && p.Lon != nil
}
