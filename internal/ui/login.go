package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rollgrid/internal/auth"
	"rollgrid/internal/store"
)

func (m *Model) setLoginFocus(idx int) {
	m.loginIdx = idx
	for i := range m.loginIn {
		if i == idx {
			m.loginIn[i].Focus()
		} else {
			m.loginIn[i].Blur()
		}
	}
}

// loginFields is the visible input order for the current mode. Sign-up
// adds the name field at the top.
func (m *Model) loginFields() []int {
	if m.signup {
		return []int{0, 1, 2}
	}
	return []int{1, 2}
}

func (m *Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := m.loginFields()
	pos := 0
	for i, f := range fields {
		if f == m.loginIdx {
			pos = i
		}
	}
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.setLoginFocus(fields[(pos+1)%len(fields)])
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.setLoginFocus(fields[(pos+len(fields)-1)%len(fields)])
		return m, nil
	case tea.KeyCtrlS:
		m.signup = !m.signup
		m.loginErr = ""
		if m.signup {
			m.setLoginFocus(0)
		} else {
			m.setLoginFocus(1)
		}
		return m, nil
	case tea.KeyEnter:
		if pos < len(fields)-1 {
			m.setLoginFocus(fields[pos+1])
			return m, nil
		}
		return m.submitLogin()
	case tea.KeyEsc:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.loginIn[m.loginIdx], cmd = m.loginIn[m.loginIdx].Update(msg)
	return m, cmd
}

func (m *Model) submitLogin() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.loginIn[0].Value())
	email := strings.TrimSpace(m.loginIn[1].Value())
	password := m.loginIn[2].Value()

	var (
		acct *store.Account
		err  error
	)
	if m.signup {
		acct, err = auth.SignUp(m.db, name, email, password, store.Profile{})
	} else {
		acct, err = auth.Login(m.db, email, password)
	}
	if err != nil {
		m.loginErr = err.Error()
		return m, nil
	}
	m.account = acct
	m.loginErr = ""
	m.loginIn[2].SetValue("")
	m.enterGrid()
	return m, m.startupCmds()
}

func (m *Model) renderLogin() string {
	var b strings.Builder
	title := "rollgrid"
	mode := "Sign in"
	hint := "[enter]=sign in [ctrl+s]=create account [esc]=quit"
	if m.signup {
		mode = "Create account"
		hint = "[enter]=create [ctrl+s]=back to sign in [esc]=quit"
	}
	b.WriteString(m.styles.Title.Render(title) + "  " + m.styles.Status.Render(mode) + "\n\n")
	for _, f := range m.loginFields() {
		label := m.loginNames[f]
		b.WriteString(m.styles.Prompt.Render(label+": ") + m.loginIn[f].View() + "\n")
	}
	if m.loginErr != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.loginErr) + "\n")
	}
	b.WriteString("\n" + m.styles.Help.Render(hint))

	box := m.styles.PopupBox.Render(b.String())
	if m.termWidth > 0 && m.termHeight > 0 {
		return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
