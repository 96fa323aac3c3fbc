package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Base        lipgloss.Style
	Title       lipgloss.Style
	Status      lipgloss.Style
	Header      lipgloss.Style
	HeaderSel   lipgloss.Style
	Cell        lipgloss.Style
	CursorRow   lipgloss.Style
	SelectedRow lipgloss.Style
	Highlighted lipgloss.Style
	Serial      lipgloss.Style
	Error       lipgloss.Style
	Help        lipgloss.Style
	PopupBox    lipgloss.Style
	PopupTitle  lipgloss.Style
	Prompt      lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	if dark {
		s.Base = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
		s.HeaderSel = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("81"))
		s.Cell = lipgloss.NewStyle()
		s.CursorRow = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220"))
		s.SelectedRow = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
		s.Highlighted = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("179"))
		s.Serial = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
		s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	} else {
		s.Base = lipgloss.NewStyle()
		s.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Header = lipgloss.NewStyle().Bold(true)
		s.HeaderSel = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("27"))
		s.Cell = lipgloss.NewStyle()
		s.CursorRow = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("27"))
		s.SelectedRow = lipgloss.NewStyle().Foreground(lipgloss.Color("90"))
		s.Highlighted = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("222"))
		s.Serial = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("124"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("94"))
	}
	return s
}
