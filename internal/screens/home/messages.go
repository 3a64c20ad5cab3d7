package home

// noticeMsg carries a transient notice shown above the menu, e.g. a guard
// failure or the daily-claim result.
type noticeMsg struct {
	Text  string
	IsErr bool
}
