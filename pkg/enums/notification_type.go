package enums

import "fmt"

// NotificationType tags an in-app notification with its origin.
type NotificationType string

const (
	NotificationTypeInfo     NotificationType = "info"
	NotificationTypeWarning  NotificationType = "warning"
	NotificationTypeError    NotificationType = "error"
	NotificationTypeSuccess  NotificationType = "success"
	NotificationTypeContract NotificationType = "contract"
	NotificationTypeDispute  NotificationType = "dispute"
	NotificationTypePayment  NotificationType = "payment"
	NotificationTypeProfile  NotificationType = "profile"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeInfo,
	NotificationTypeWarning,
	NotificationTypeError,
	NotificationTypeSuccess,
	NotificationTypeContract,
	NotificationTypeDispute,
	NotificationTypePayment,
	NotificationTypeProfile,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
