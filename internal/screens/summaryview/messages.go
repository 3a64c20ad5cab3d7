package summaryview

// summaryReadyMsg is sent when summary generation settles.
type summaryReadyMsg struct {
	Text string
	Err  error
}
