package nav

// ScreenID names a composable screen. The set is closed and stable for the
// lifetime of the application.
type ScreenID string

const (
	ScreenCentral ScreenID = "mmmmm.Central"
	ScreenProfile ScreenID = "mmmmm.Profile"
)

// Screens lists every screen the application registers, root first.
var Screens = []ScreenID{ScreenCentral, ScreenProfile}

// CommandType tags a navigation command.
type CommandType string

const (
	Push      CommandType = "push"
	Pop       CommandType = "pop"
	PopToRoot CommandType = "popToRoot"
	ResetTo   CommandType = "resetTo"
)

// Props is the free-form parameter bundle of a command.
type Props map[string]any

// String returns the non-empty string stored under key.
func (p Props) String(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Command is an instruction for the navigation stack.
type Command struct {
	Type      CommandType
	Screen    ScreenID
	PassProps Props
}

// IsPush reports whether c is a push command.
func (c Command) IsPush() bool { return c.Type == Push }

// PushTo presents screen with optional props.
func PushTo(screen ScreenID, props Props) Command {
	return Command{Type: Push, Screen: screen, PassProps: props}
}

// PopScreen removes the top screen.
func PopScreen() Command { return Command{Type: Pop} }

// PopAll returns to the root screen.
func PopAll() Command { return Command{Type: PopToRoot} }

// Reset replaces the whole stack with screen.
func Reset(screen ScreenID, props Props) Command {
	return Command{Type: ResetTo, Screen: screen, PassProps: props}
}
