package transport

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logx "remindbot/pkg/logx"
)

func TestThrottledPassesThrough(t *testing.T) {
	t.Parallel()
	var got []Message
	d := NewThrottled(DispatcherFunc(func(ctx context.Context, msg Message) error {
		got = append(got, msg)
		return nil
	}), 5)

	for i := 0; i < 3; i++ {
		require.NoError(t, d.Send(context.Background(), Message{To: "x", Body: "hi"}))
	}
	assert.Len(t, got, 3)
}

func TestThrottledDisabled(t *testing.T) {
	t.Parallel()
	inner := DispatcherFunc(func(ctx context.Context, msg Message) error { return nil })
	d := NewThrottled(inner, 0)
	_, wrapped := d.(*Throttled)
	assert.False(t, wrapped)
}

func TestThrottledCancelled(t *testing.T) {
	t.Parallel()
	calls := 0
	d := NewThrottled(DispatcherFunc(func(ctx context.Context, msg Message) error {
		calls++
		return nil
	}), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, d.Send(ctx, Message{To: "x"}))
	assert.Zero(t, calls)
}

func TestLogDispatcher(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	d := LogDispatcher{Log: logx.NewWriter(&buf, "info")}

	require.NoError(t, d.Send(context.Background(), Message{From: "bot", To: "+911234567890", Body: "Reminder"}))
	assert.Contains(t, buf.String(), "dry-run send")
	assert.Contains(t, buf.String(), "+911234567890")

	require.ErrorIs(t, d.Send(context.Background(), Message{Body: "x"}), ErrEmptyDestination)
}
