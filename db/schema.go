package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS tickets (
	ticket_id SERIAL PRIMARY KEY,
	passenger_first_name VARCHAR(50) NOT NULL,
	passenger_last_name VARCHAR(50) NOT NULL,
	gender VARCHAR(10) NOT NULL,
	from_station VARCHAR(100) NOT NULL,
	to_station VARCHAR(100) NOT NULL,
	journey_date DATE NOT NULL,
	train_number VARCHAR(5) NOT NULL,
	fare NUMERIC(10, 2) NOT NULL,
	status VARCHAR(20) NOT NULL,
	pnr CHAR(10) NOT NULL UNIQUE,
	booked_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	event_id UUID PRIMARY KEY,
	published_at TIMESTAMPTZ NOT NULL,
	event_name VARCHAR(255) NOT NULL,
	event_payload JSONB NOT NULL
);
`

func InitializeDatabaseSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("could not initialize database schema: %w", err)
	}
	return nil
}
