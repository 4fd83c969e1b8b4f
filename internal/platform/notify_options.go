package platform

import "time"

// AppName identifies the sender to the notification service.
const AppName = "vodmark"

// DefaultTimeout is how long a notification stays on screen when the
// platform lets us choose.
const DefaultTimeout = 5 * time.Second

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath points to an image shown with the notification where the
	// platform supports it.
	IconPath string
	Timeout  time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}
