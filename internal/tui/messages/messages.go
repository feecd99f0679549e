package messages

// MailboxMsg carries a notification posted by background work. It is run
// on the UI goroutine.
type MailboxMsg struct {
	Fn func()
}

// MailboxClosedMsg is sent once the controller mailbox is closed
type MailboxClosedMsg struct{}

// PromptKind tells what a path prompt is asking for
type PromptKind int

const (
	PromptOpen PromptKind = iota
	PromptNew
	PromptSaveAs
)

// PromptMsg is sent when the user submits a prompt. Value is empty when
// the prompt was cancelled.
type PromptMsg struct {
	Kind  PromptKind
	Value string
}

// ClipboardMsg reports the result of copying a log to the clipboard
type ClipboardMsg struct {
	Lines int
	Err   error
}

// OpenFilesMsg asks the model to open files given on the command line
type OpenFilesMsg struct {
	Paths []string
}
