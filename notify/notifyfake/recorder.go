package notifyfake

import (
	"sync"

	"github.com/jrsteele09/docflow-admin/notify"
)

var _ notify.Sink = (*Recorder)(nil)

type Notification struct {
	Type    notify.Type
	Message string
}

// Recorder keeps every notification and redirect it receives.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
	redirects     []string
}

func New() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(t notify.Type, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{Type: t, Message: message})
}

func (r *Recorder) Redirect(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redirects = append(r.redirects, path)
}

func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notifications...)
}

func (r *Recorder) Redirects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.redirects...)
}

// LastNotification returns the most recent notification, if any.
func (r *Recorder) LastNotification() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}

// LastRedirect returns the most recent redirect, or "".
func (r *Recorder) LastRedirect() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.redirects) == 0 {
		return ""
	}
	return r.redirects[len(r.redirects)-1]
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = nil
	r.redirects = nil
}
