package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-console/pkg/logger"
	"github.com/jwalitptl/care-console/pkg/metrics"
)

type fakeBroker struct {
	mu       sync.Mutex
	err      error
	channels []string
	messages []interface{}
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.channels = append(b.channels, channel)
	b.messages = append(b.messages, message)
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, errors.New("not supported")
}

func (b *fakeBroker) Close() error { return nil }

func TestService_Emit(t *testing.T) {
	broker := &fakeBroker{}
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test")
	svc := NewService(broker, logger.Nop(), m)
	at := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	svc.Emit(context.Background(), "doctor", ActionDeleted, "d-1")

	require.Len(t, broker.messages, 1)
	assert.Equal(t, Channel, broker.channels[0])
	evt := broker.messages[0].(Event)
	assert.Equal(t, "doctor.deleted", evt.Type)
	assert.Equal(t, "doctor", evt.Resource)
	assert.Equal(t, "d-1", evt.EntityID)
	assert.Equal(t, at, evt.At)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("doctor.deleted", "published")))
}

func TestService_EmitSwallowsBrokerErrors(t *testing.T) {
	broker := &fakeBroker{err: errors.New("redis down")}
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test")
	svc := NewService(broker, logger.Nop(), m)

	assert.NotPanics(t, func() {
		svc.Emit(context.Background(), "patient", ActionCreated, "p-1")
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("patient.created", "failed")))
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard.Emit(context.Background(), "specialty", ActionUpdated, "s-1")
	})
}
