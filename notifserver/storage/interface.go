package storage

import (
	"context"

	"github.com/orbitsocial/orbit/notifserver/api"
	"github.com/orbitsocial/orbit/notifserver/types"
)

// Database is the notifserver view of the relational datastore:
// persisted in-app notifications with read tracking, application
// alerts and per-person channel suppression preferences.
type Database interface {
	// In-app notifications
	CreateNotification(ctx context.Context, n *types.InAppNotification) (int64, error)
	GetNotificationsByRecipient(ctx context.Context, recipientID int64, limit int) ([]types.InAppNotification, error)
	GetUnreadNotificationCount(ctx context.Context, recipientID int64) (int64, error)
	MarkNotificationsReadUpTo(ctx context.Context, recipientID, notificationID int64) error

	// Alerts
	CreateAlert(ctx context.Context, a *types.Alert) (int64, error)
	GetAlertsByRecipient(ctx context.Context, recipientID int64, unreadOnly bool) ([]types.Alert, error)
	GetUnreadAlertCount(ctx context.Context, recipientID int64) (int64, error)
	MarkAlertsRead(ctx context.Context, recipientID int64) error

	// Preferences
	SetPreference(ctx context.Context, personID int64, notificationType api.NotificationType, channel api.Channel, suppressed bool) error
	GetSuppressedChannels(ctx context.Context, personID int64, notificationType api.NotificationType) ([]api.Channel, error)
	GetSuppressedRecipients(ctx context.Context, personIDs []int64, notificationType api.NotificationType, channel api.Channel) ([]int64, error)
}
