package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-repair/internal/common"
	"github.com/noah-isme/backend-repair/internal/db"
	"github.com/noah-isme/backend-repair/internal/events"
	"github.com/noah-isme/backend-repair/internal/notify"
)

func testEvent(topic string, payload []byte) db.DomainEvent {
	return db.DomainEvent{
		ID:          pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Topic:       topic,
		AggregateID: pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Payload:     payload,
		OccurredAt:  pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
}

func TestEmailNotifierSends(t *testing.T) {
	outbox := &common.InMemoryEmail{}
	notifier := notify.EmailNotifier{Mail: outbox, Enabled: true, From: "repair@example.com"}

	payload := []byte(`{"requestId":"abc","customerEmail":"kim@example.com","total":40500}`)
	err := notifier.Notify(context.Background(), testEvent(events.TopicRequestCreated, payload))
	require.NoError(t, err)
	require.Len(t, outbox.Outbox, 1)
	require.Equal(t, "kim@example.com", outbox.Outbox[0].To)
	require.Contains(t, outbox.Outbox[0].HTML, "abc")
}

func TestEmailNotifierSkips(t *testing.T) {
	outbox := &common.InMemoryEmail{}

	disabled := notify.EmailNotifier{Mail: outbox, Enabled: false}
	require.NoError(t, disabled.Notify(context.Background(), testEvent(events.TopicRequestCreated, []byte(`{"customerEmail":"a@b.c"}`))))
	require.Empty(t, outbox.Outbox)

	muted := notify.EmailNotifier{
		Mail:         outbox,
		Enabled:      true,
		TopicToggles: map[string]bool{events.TopicRequestCreated: false},
	}
	require.NoError(t, muted.Notify(context.Background(), testEvent(events.TopicRequestCreated, []byte(`{"customerEmail":"a@b.c"}`))))
	require.Empty(t, outbox.Outbox)

	noRecipient := notify.EmailNotifier{Mail: outbox, Enabled: true}
	require.NoError(t, noRecipient.Notify(context.Background(), testEvent(events.TopicRequestCreated, []byte(`{}`))))
	require.Empty(t, outbox.Outbox)
}
