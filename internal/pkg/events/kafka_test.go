package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafkago.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	occurred := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), Event{
		Topic:      TopicShiftLifecycle,
		Type:       TypeShiftClockedIn,
		Key:        "driver-1",
		OccurredAt: occurred,
		Payload:    ShiftEventPayload{ShiftID: "s1", DriverID: "driver-1", ClockInTime: occurred, StartOdometer: 15000, Status: "active"},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, TopicShiftLifecycle, msg.Topic)
	assert.Equal(t, "driver-1", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, TypeShiftClockedIn, string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, TypeShiftClockedIn, decoded["event_type"])
	payload := decoded["payload"].(map[string]any)
	assert.Equal(t, float64(15000), payload["start_odometer"])
	assert.NotContains(t, payload, "end_odometer")
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}}
	err := p.Publish(context.Background(), Event{Topic: TopicAdvanceLifecycle, Type: TypeAdvanceApproved, Key: "d"})
	assert.ErrorContains(t, err, "broker down")
}
