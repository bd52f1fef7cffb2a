package ports

// FrameScheduler is the "notify me before the next repaint" primitive.
// The render loop calls RequestFrame once per frame to reschedule itself.
type FrameScheduler interface {
	// RequestFrame arranges for fn to be called once before the next repaint.
	// Only the most recent request is honoured; fn is never called concurrently
	// with itself.
	RequestFrame(fn func())

	// Cancel drops any pending request. Calling it without a pending request is a no-op.
	Cancel()
}

// ThemeSource reports the theme chosen by the external toggle.
// The visualizer reads it every frame and never writes it.
type ThemeSource interface {
	DarkMode() bool
}
