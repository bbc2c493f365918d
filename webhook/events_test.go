package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventTicketCreated(t *testing.T) {
	body := []byte(`{
		"id": "evt_1",
		"type": "ticket.created",
		"occurred_at": "2026-08-30T12:00:00Z",
		"payload": {"ticket": {"id": "t1", "subject": "help"}}
	}`)

	ev, err := ParseEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, EventTicketCreated, ev.Type)

	p, err := ev.Ticket()
	require.NoError(t, err)
	assert.Equal(t, "t1", p.Ticket.ID)
	assert.Equal(t, "help", p.Ticket.Subject)
}

func TestParseEventTicketUpdatedChanges(t *testing.T) {
	body := []byte(`{
		"id": "evt_2",
		"type": "ticket.updated",
		"occurred_at": "2026-08-30T12:00:00Z",
		"payload": {"ticket": {"id": "t1"}, "changes": ["status", "assignee_id"]}
	}`)

	ev, err := ParseEvent(body)
	require.NoError(t, err)

	p, err := ev.Ticket()
	require.NoError(t, err)
	assert.Equal(t, []string{"status", "assignee_id"}, p.Changes)
}

func TestParseEventCommentCreated(t *testing.T) {
	body := []byte(`{
		"id": "evt_3",
		"type": "comment.created",
		"occurred_at": "2026-08-30T12:00:00Z",
		"payload": {"comment": {"id": "c1", "ticket_id": "t1", "body": "hi", "public": true}}
	}`)

	ev, err := ParseEvent(body)
	require.NoError(t, err)

	p, err := ev.Comment()
	require.NoError(t, err)
	assert.Equal(t, "c1", p.Comment.ID)
	assert.True(t, p.Comment.Public)

	// The typed accessors refuse cross-type decodes.
	_, err = ev.Ticket()
	assert.Error(t, err)
}

func TestParseEventRejectsInvalidEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{{`},
		{"missing id", `{"type":"ticket.created","occurred_at":"2026-08-30T12:00:00Z","payload":{}}`},
		{"unknown type", `{"id":"evt","type":"ticket.exploded","occurred_at":"2026-08-30T12:00:00Z","payload":{}}`},
		{"missing payload", `{"id":"evt","type":"ticket.created","occurred_at":"2026-08-30T12:00:00Z"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}
