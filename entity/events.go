package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:          uuid.NewString(),
		PublishedAt: time.Now().UTC(),
	}
}

type TicketBooked struct {
	Header      EventHeader `json:"header"`
	TicketID    int         `json:"ticket_id"`
	PNR         string      `json:"pnr"`
	FromStation string      `json:"from_station"`
	ToStation   string      `json:"to_station"`
	TrainNumber string      `json:"train_number"`
	Fare        float64     `json:"fare"`
}

type TicketCancelled struct {
	Header   EventHeader `json:"header"`
	TicketID int         `json:"ticket_id"`
	PNR      string      `json:"pnr"`
}

// AuditEvent is a raw copy of a published event, as stored in the audit log.
type AuditEvent struct {
	ID          string    `db:"event_id"`
	PublishedAt time.Time `db:"published_at"`
	Name        string    `db:"event_name"`
	Payload     []byte    `db:"event_payload"`
}
