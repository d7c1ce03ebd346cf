package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/expense-service/internal/events"
	"github.com/spec-kit/expense-service/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartRedisForwarder publishes every domain event to Redis. Publish failures are
// logged and swallowed so requests never fail because Redis is down.
func StartRedisForwarder(dispatcher events.Dispatcher, publisher *events.RedisPublisher, logger *zap.Logger) {
	if dispatcher == nil || publisher == nil {
		return
	}
	events.SubscribeAll(dispatcher, func(ctx context.Context, event events.Event) error {
		if err := publisher.Handle(ctx, event); err != nil {
			logger.Warn("redis event publish failed",
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
		return nil
	})
}
