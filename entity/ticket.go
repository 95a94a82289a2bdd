package entity

import (
	"fmt"
	"time"
)

type TicketStatus string

const (
	StatusConfirmed TicketStatus = "CONFIRMED"
	StatusCancelled TicketStatus = "CANCELLED"
)

// Ticket is the persisted record owned by the booking authority.
// Everything except Status is immutable after creation; cancellation is a
// status change, never a delete.
type Ticket struct {
	ID                 int          `db:"ticket_id"`
	PassengerFirstName string       `db:"passenger_first_name"`
	PassengerLastName  string       `db:"passenger_last_name"`
	Gender             string       `db:"gender"`
	FromStation        string       `db:"from_station"`
	ToStation          string       `db:"to_station"`
	JourneyDate        time.Time    `db:"journey_date"`
	TrainNumber        string       `db:"train_number"`
	Fare               float64      `db:"fare"`
	Status             TicketStatus `db:"status"`
	PNR                string       `db:"pnr"`
	BookedAt           time.Time    `db:"booked_at"`
}

// TicketView is the externally visible projection of a Ticket. The mapping
// is pure and total: one record, one view.
type TicketView struct {
	TicketID      int       `json:"ticketId"`
	PassengerName string    `json:"passengerName"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	TrainNumber   string    `json:"trainNum"`
	Cost          string    `json:"tktCost"`
	Status        string    `json:"ticketStatus"`
	PNR           string    `json:"pnr"`
	BookingTime   time.Time `json:"bookingTime"`
}

func (t Ticket) View() TicketView {
	return TicketView{
		TicketID:      t.ID,
		PassengerName: t.PassengerFirstName + " " + t.PassengerLastName,
		From:          t.FromStation,
		To:            t.ToStation,
		TrainNumber:   t.TrainNumber,
		Cost:          fmt.Sprintf("%.2f INR", t.Fare),
		Status:        string(t.Status),
		PNR:           t.PNR,
		BookingTime:   t.BookedAt,
	}
}

// BookingRequest is the wire contract shared by the authority and the
// reseller. Field names follow the public API, not Go conventions.
type BookingRequest struct {
	FirstName   string `json:"fname"`
	LastName    string `json:"lname"`
	Gender      string `json:"gender"`
	From        string `json:"from"`
	To          string `json:"to"`
	JourneyDate string `json:"doj"`
	TrainNumber string `json:"trainNum"`
}

// Validate re-derives the field constraints on the request. The booking
// engine never trusts the transport layer to have validated the input.
func (r BookingRequest) Validate() error {
	fields := map[string]string{}

	if l := len(r.FirstName); l < 2 || l > 50 {
		fields["fname"] = "first name must be between 2 and 50 characters"
	}
	if l := len(r.LastName); l < 2 || l > 50 {
		fields["lname"] = "last name must be between 2 and 50 characters"
	}
	switch r.Gender {
	case "Male", "Female", "Other":
	default:
		fields["gender"] = "gender must be Male, Female, or Other"
	}
	if r.From == "" {
		fields["from"] = "source station is required"
	}
	if r.To == "" {
		fields["to"] = "destination station is required"
	}
	if _, err := time.Parse("2006-01-02", r.JourneyDate); err != nil {
		fields["doj"] = "date format should be yyyy-MM-dd"
	}
	if len(r.TrainNumber) != 5 {
		fields["trainNum"] = "train number must be 5 characters"
	}

	if len(fields) > 0 {
		return ValidationError{Fields: fields}
	}
	return nil
}
