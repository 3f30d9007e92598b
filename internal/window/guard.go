package window

// CloseGuard is consulted before a window is closed through RequestClose.
// Returning false keeps the window open.
type CloseGuard interface {
	CanClose() bool
}

// CloseGuardFunc adapts a plain function to CloseGuard.
type CloseGuardFunc func() bool

func (f CloseGuardFunc) CanClose() bool { return f() }

// CloseOutcome is the result of RequestClose.
type CloseOutcome int

const (
	CloseNotFound CloseOutcome = iota
	CloseVetoed
	CloseClosed
)

func (o CloseOutcome) String() string {
	switch o {
	case CloseVetoed:
		return "vetoed"
	case CloseClosed:
		return "closed"
	default:
		return "not_found"
	}
}
