package entry

// Reply is one outward message decided by the state machine. It is
// transport-agnostic; the delivery layer translates keyboards and parse
// modes into Bot API payloads.
type Reply struct {
	Text           string
	Markdown       bool
	Keyboard       [][]string // reply keyboard rows; nil when no keyboard change
	Placeholder    string     // input field hint shown with the keyboard
	RemoveKeyboard bool
}
