package scheduleconfig

// scheduleReadyMsg is sent when schedule generation settles.
type scheduleReadyMsg struct {
	Text string
	Err  error
}
