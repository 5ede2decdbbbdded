package domain

// Capacity is derived from a seat map snapshot and never stored.
type Capacity struct {
	Total     int
	Booked    int
	Held      int
	Available int
}

func NewCapacity(layout SeatLayout, states SeatStates) Capacity {
	c := Capacity{Total: layout.Total()}

	for _, state := range states {
		switch state {
		case SeatBooked:
			c.Booked++
		case SeatHeld:
			c.Held++
		}
	}

	c.Available = c.Total - c.Booked - c.Held

	return c
}

// SeatMapView is a seat map snapshot together with its capacity.
type SeatMapView struct {
	ShowtimeID int64
	Seats      SeatStates
	Capacity   Capacity
}
