package chat

import "time"

// Scheduler runs fire once after d unless the returned cancel func is called first
type Scheduler interface {
	Schedule(d time.Duration, fire func()) (cancel func())
}

// TimerScheduler schedules on real timers
type TimerScheduler struct{}

// Schedule starts a timer
func (TimerScheduler) Schedule(d time.Duration, fire func()) func() {
	t := time.AfterFunc(d, fire)
	return func() { t.Stop() }
}
