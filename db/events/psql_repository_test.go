package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railway/db"
	"railway/entity"
)

func TestPostgresRepository_StoreEvent(t *testing.T) {
	ctx := context.Background()
	container, url := db.StartPostgresContainer()
	defer container.Terminate(ctx)

	t.Setenv("POSTGRES_URL", url)
	repo := NewPostgresRepository(db.GetDb(t))

	event := entity.AuditEvent{
		ID:          uuid.NewString(),
		PublishedAt: time.Now().UTC(),
		Name:        "entity.TicketBooked",
		Payload:     []byte(`{"ticket_id": 1, "pnr": "1000000001"}`),
	}

	require.NoError(t, repo.StoreEvent(ctx, event))

	// a re-delivered event is stored once
	require.NoError(t, repo.StoreEvent(ctx, event))

	stored, err := repo.GetEvents(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, event.ID, stored[0].ID)
	assert.Equal(t, "entity.TicketBooked", stored[0].Name)
	assert.JSONEq(t, string(event.Payload), string(stored[0].Payload))
}
