package ui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	AddRow        tea.Key
	AddColumn     tea.Key
	DeleteRows    tea.Key
	DeleteColumn  tea.Key
	Duplicate     tea.Key
	Highlight     tea.Key
	EditCell      tea.Key
	BatchUpdate   tea.Key
	ToggleSelect  tea.Key
	SelectAll     tea.Key
	ClearSelect   tea.Key
	Filter        tea.Key
	ExprFilter    tea.Key
	ClearFilter   tea.Key
	Search        tea.Key
	SearchNext    tea.Key
	SearchPrev    tea.Key
	Sort          tea.Key
	RenameColumn  tea.Key
	MoveColLeft   tea.Key
	MoveColRight  tea.Key
	HideColumn    tea.Key
	ShowAllCols   tea.Key
	Undo          tea.Key
	Redo          tea.Key
	Export        tea.Key
	Dictate       tea.Key
	Analyze       tea.Key
	ClearRoster   tea.Key
	Profile       tea.Key
	Accounts      tea.Key
	Save          tea.Key
	Top           tea.Key
	Bottom        tea.Key
	AppLogs       tea.Key
	Help          tea.Key
	Logout        tea.Key
	Quit          tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		AddRow:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'a'}},
		AddColumn:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'A'}},
		DeleteRows:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'d'}},
		DeleteColumn: tea.Key{Type: tea.KeyRunes, Runes: []rune{'D'}},
		Duplicate:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'y'}},
		Highlight:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'h'}},
		EditCell:     tea.Key{Type: tea.KeyEnter},
		BatchUpdate:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'b'}},
		ToggleSelect: tea.Key{Type: tea.KeyRunes, Runes: []rune{' '}},
		SelectAll:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'v'}},
		ClearSelect:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'V'}},
		Filter:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'f'}},
		ExprFilter:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'x'}},
		ClearFilter:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'F'}},
		Search:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		SearchNext:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'n'}},
		SearchPrev:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'N'}},
		Sort:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'s'}},
		RenameColumn: tea.Key{Type: tea.KeyRunes, Runes: []rune{'r'}},
		MoveColLeft:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'['}},
		MoveColRight: tea.Key{Type: tea.KeyRunes, Runes: []rune{']'}},
		HideColumn:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'-'}},
		ShowAllCols:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'='}},
		Undo:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'u'}},
		Redo:         tea.Key{Type: tea.KeyCtrlR},
		Export:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		Dictate:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'i'}},
		Analyze:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'I'}},
		ClearRoster:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'X'}},
		Profile:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'p'}},
		Accounts:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'M'}},
		Save:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'w'}},
		Top:          tea.Key{Type: tea.KeyRunes, Runes: []rune{'g'}},
		Bottom:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'G'}},
		AppLogs:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		Help:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
		Logout:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'Q'}},
		Quit:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}
