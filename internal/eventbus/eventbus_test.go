package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type pingEvent struct{ N int }
type otherEvent struct{ S string }

func TestPublishWithoutBusIsNoop(t *testing.T) {
	Use(nil)
	// Must not panic.
	Publish(context.Background(), pingEvent{N: 1})
	unsub := Subscribe(func(context.Context, pingEvent) { t.Fatal("handler ran without a bus") })
	unsub()
}

func TestSubscribeAndPublish(t *testing.T) {
	Use(New())
	t.Cleanup(func() { Use(nil) })

	var got []pingEvent
	unsub := Subscribe(func(ctx context.Context, e pingEvent) { got = append(got, e) })
	defer unsub()

	Publish(context.Background(), pingEvent{N: 1})
	Publish(context.Background(), pingEvent{N: 2})
	require.Equal(t, []pingEvent{{N: 1}, {N: 2}}, got)
}

func TestEventTypesAreIsolated(t *testing.T) {
	Use(New())
	t.Cleanup(func() { Use(nil) })

	var pings, others int
	defer Subscribe(func(ctx context.Context, e pingEvent) { pings++ })()
	defer Subscribe(func(ctx context.Context, e otherEvent) { others++ })()

	Publish(context.Background(), pingEvent{})
	Publish(context.Background(), otherEvent{})
	Publish(context.Background(), otherEvent{})

	require.Equal(t, 1, pings)
	require.Equal(t, 2, others)
}

func TestUnsubscribe(t *testing.T) {
	Use(New())
	t.Cleanup(func() { Use(nil) })

	var first, second int
	unsub := Subscribe(func(ctx context.Context, e pingEvent) { first++ })
	defer Subscribe(func(ctx context.Context, e pingEvent) { second++ })()

	Publish(context.Background(), pingEvent{})
	unsub()
	Publish(context.Background(), pingEvent{})

	require.Equal(t, 1, first)
	require.Equal(t, 2, second)
}

func TestPublishPassesContext(t *testing.T) {
	Use(New())
	t.Cleanup(func() { Use(nil) })

	type ctxKey struct{}
	var got any
	defer Subscribe(func(ctx context.Context, e pingEvent) { got = ctx.Value(ctxKey{}) })()

	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	Publish(ctx, pingEvent{})
	require.Equal(t, "v", got)
}
