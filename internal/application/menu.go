package application

import "context"

/* ----------------------------------------
	MENU REGISTRY
---------------------------------------- */

// Action tags a main menu entry.
type Action int

const (
	ActionAdd Action = iota
	ActionView
	ActionBackup
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionView:
		return "view"
	case ActionBackup:
		return "backup"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// MenuItem is one main menu entry. Run is nil for ActionQuit.
type MenuItem struct {
	Key    string
	Label  string
	Action Action
	Run    func(ctx context.Context) error
}

// buildMenu returns the main menu in display order.
func buildMenu(s *Session) []MenuItem {
	return []MenuItem{
		{Key: "a", Label: "Add items to inventory.", Action: ActionAdd, Run: s.add},
		{Key: "v", Label: "Search entries in database.", Action: ActionView, Run: s.view},
		{Key: "b", Label: "Back-up data to database.", Action: ActionBackup, Run: s.backup},
		{Key: "q", Label: "Quit.", Action: ActionQuit},
	}
}

// lookup finds the entry for a normalized menu choice.
func lookup(menu []MenuItem, key string) (MenuItem, bool) {
	for _, item := range menu {
		if item.Key == key {
			return item, true
		}
	}
	return MenuItem{}, false
}
