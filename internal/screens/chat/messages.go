package chat

// replyMsg is sent when the assistant's reply (or the failure) arrives.
type replyMsg struct {
	Reply string
	Err   error
}
