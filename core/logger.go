package core

// Logger logs messages and reports errors to an external tracker.
// args may contain errors, extra data maps and the session the message relates to.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// SessionInfo identifies the session a logged message relates to.
type SessionInfo struct {
	ID   string
	Role string
}
