package pw

// Notifier receives progress messages while an operation runs.
// Notify is fire-and-forget: implementations must not block and must be
// safe to call from any goroutine.
type Notifier interface {
	Notify(status string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(status string)

func (f NotifierFunc) Notify(status string) { f(status) }

// NopNotifier drops all progress messages.
type NopNotifier struct{}

func (NopNotifier) Notify(string) {}
