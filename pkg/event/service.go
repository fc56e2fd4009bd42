package event

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-console/pkg/logger"
	"github.com/jwalitptl/care-console/pkg/messaging"
	"github.com/jwalitptl/care-console/pkg/metrics"
)

type Service struct {
	broker  messaging.Broker
	logger  *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(broker messaging.Broker, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		broker:  broker,
		logger:  log,
		metrics: m,
		now:     time.Now,
	}
}

// Emit publishes the event on Channel. Broker failures are logged and counted only.
func (s *Service) Emit(ctx context.Context, resource string, action Action, entityID string) {
	evt := Event{
		ID:       uuid.New(),
		Type:     resource + "." + string(action),
		Resource: resource,
		EntityID: entityID,
		At:       s.now().UTC(),
	}

	status := "published"
	if err := s.broker.Publish(ctx, Channel, evt); err != nil {
		status = "failed"
		s.logger.Error(err, "failed to publish activity event", "type", evt.Type, "entity_id", entityID)
	}
	if s.metrics != nil {
		s.metrics.EventsPublished.WithLabelValues(evt.Type, status).Inc()
	}
}
