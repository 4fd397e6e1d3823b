package apartments

import (
	"time"
)

type ApartmentCreatedEvent struct {
	ApartmentID ApartmentID `json:"apartment_id"`
	Project     string      `json:"project"`
	UnitNumber  string      `json:"unit_number"`
	Location    string      `json:"location"`
	Price       float64     `json:"price"`
	At          time.Time   `json:"at"`
}

func (e ApartmentCreatedEvent) EventName() string     { return "apartment.created" }
func (e ApartmentCreatedEvent) AggregateID() string   { return string(e.ApartmentID) }
func (e ApartmentCreatedEvent) OccurredAt() time.Time { return e.At }

func newApartmentCreatedEvent(a *Apartment, at time.Time) ApartmentCreatedEvent {
	return ApartmentCreatedEvent{
		ApartmentID: a.ID,
		Project:     a.Project,
		UnitNumber:  a.UnitNumber,
		Location:    a.Location,
		Price:       a.Price,
		At:          at,
	}
}
