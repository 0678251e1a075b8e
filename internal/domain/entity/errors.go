package entity

import "fmt"

// ProtocolError is a recoverable violation of the command protocol. Hint
// tells the agent what to do next.
type ProtocolError struct {
	Reason string
	Hint   string
}

func (e *ProtocolError) Error() string {
	if e.Hint == "" {
		return e.Reason
	}
	return e.Reason + ". " + e.Hint
}

func NewNotHighlightedError(required HighlightCategory) *ProtocolError {
	return &ProtocolError{
		Reason: "elements not highlighted",
		Hint: fmt.Sprintf("Please highlight %s elements on the page first by outputting '%s' message. "+
			"You must output just the message without calling the tool first, so the user can respond with the screenshot.",
			required.noun(), required.MetaCommand()),
	}
}

func NewRepeatedMessageError() *ProtocolError {
	return &ProtocolError{
		Reason: "repeated message",
		Hint:   "Do not repeat yourself. If you are stuck, try a different approach or search in Google.",
	}
}

func NewMissingArgumentError(name string) *ProtocolError {
	return &ProtocolError{Reason: name + " required"}
}

// IndexError reports an element number outside the active frame.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("invalid element number %d (frame has %d elements)", e.Index, e.Count)
}

// DriverInitError means the browser could not be located or launched.
type DriverInitError struct {
	Err error
}

func (e *DriverInitError) Error() string {
	return "browser driver init failed: " + e.Err.Error()
}

func (e *DriverInitError) Unwrap() error {
	return e.Err
}
