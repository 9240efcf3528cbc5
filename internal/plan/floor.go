package plan

type Floor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Zones []Zone `json:"zones"`
}

type Zone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultZone is given to floors created without zones.
var DefaultZone = Zone{ID: "zona-principal", Name: "Zona Principal"}

// Zone returns the zone with id, if the floor has it.
func (f Floor) Zone(id string) (Zone, bool) {
	for _, z := range f.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return Zone{}, false
}

// Location is a floor/zone pair addressing one canvas workspace.
type Location struct {
	Floor string
	Zone  string
}

// Locations flattens floors into every floor/zone pair, in order.
func Locations(floors []Floor) []Location {
	var locs []Location
	for _, f := range floors {
		for _, z := range f.Zones {
			locs = append(locs, Location{Floor: f.ID, Zone: z.ID})
		}
	}
	return locs
}
