package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"community-sport/backend/internal/events"

	"github.com/stretchr/testify/require"
)

func TestEncode_Envelope(t *testing.T) {
	at := time.Date(2025, 5, 4, 18, 0, 0, 0, time.UTC)
	b, err := events.Encode(events.SubjectAppointmentCancelled, map[string]string{"appointmentId": "a1"}, at)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "appointment.cancelled", decoded["event_type"])
	require.Equal(t, "2025-05-04T18:00:00Z", decoded["occurred_at"])
	require.Equal(t, map[string]interface{}{"appointmentId": "a1"}, decoded["data"])
}

func TestEncode_Unmarshalable(t *testing.T) {
	_, err := events.Encode(events.SubjectProgramCreated, make(chan int), time.Now())
	require.Error(t, err)
}

func TestNop(t *testing.T) {
	var p events.Publisher = events.Nop{}
	require.NoError(t, p.Publish(context.Background(), events.SubjectRoleChanged, nil))
}
