package worker

import (
	"github.com/spec-kit/task-tracker/internal/service"
)

// StartNotificationWorker subscribes the notification service to the task
// lifecycle events (created, status changed, assigned) and comment additions
// before the HTTP server starts accepting requests.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
