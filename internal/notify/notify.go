// Package notify delivers submission progress to the user. Each in-flight
// submission owns a single notification keyed by its correlation id; loading
// updates replace the message in place and success or error finalizes it.
package notify

// Notifier receives progress for a keyed notification. Implementations must
// tolerate Loading being called repeatedly for the same id before the final
// Success or Error call.
type Notifier interface {
	// Loading shows or updates an in-progress notification.
	Loading(id, message string)
	// Success finalizes the notification with a success message.
	Success(id, message string)
	// Error finalizes the notification with an error message.
	Error(id, message string)
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) Loading(string, string) {}
func (Nop) Success(string, string) {}
func (Nop) Error(string, string)   {}
