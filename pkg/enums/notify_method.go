package enums

import "fmt"

// NotifyMethod records how an owner notification was (or would be)
// delivered. The chat link method means a deep link was produced for an
// administrator to open interactively.
type NotifyMethod string

const (
	NotifyMethodSMS      NotifyMethod = "sms"
	NotifyMethodChatLink NotifyMethod = "whatsapp_link"
)

var validNotifyMethods = []NotifyMethod{
	NotifyMethodSMS,
	NotifyMethodChatLink,
}

// String returns the literal string for the method.
func (n NotifyMethod) String() string {
	return string(n)
}

// IsValid reports whether the method is known.
func (n NotifyMethod) IsValid() bool {
	for _, candidate := range validNotifyMethods {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotifyMethod converts raw input into a NotifyMethod.
func ParseNotifyMethod(value string) (NotifyMethod, error) {
	for _, candidate := range validNotifyMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notify method %q", value)
}
