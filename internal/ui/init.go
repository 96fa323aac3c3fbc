package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"rollgrid/internal/ai"
	"rollgrid/internal/auth"
	"rollgrid/internal/config"
	"rollgrid/internal/model"
	"rollgrid/internal/mutate"
	"rollgrid/internal/store"
	"rollgrid/internal/util/logx"
	"rollgrid/internal/view"
)

func initialModel(ctx context.Context, cfg *config.Config, db *store.DB) *Model {
	m := &Model{
		ctx:      ctx,
		cfg:      cfg,
		db:       db,
		hist:     model.NewHistory(model.EmptySnapshot()),
		selected: mutate.IDSet{},
		hidden:   map[string]bool{},
		styles:   NewStyles(cfg.Theme == config.ThemeDark),
		keymap:   DefaultKeyMap(),
		input:    textinput.New(),
		spin:     spinner.New(),
		screen:   screenLogin,
	}
	m.spin.Spinner = spinner.Dot
	m.input.CharLimit = 512
	m.modalVP = viewport.New(80, 20)
	m.hist.SetMaxDepth(cfg.HistoryDepth)
	m.proj, _ = view.NewProjector(view.Criteria{})

	if cfg.AIEnabled() {
		c := ai.NewClient(cfg.OpenAIKey(), cfg.OpenAIBase, cfg.OpenAIModel, time.Duration(cfg.OpenAITimeoutSec)*time.Second)
		m.extractor = c
		m.analyzer = c
	}

	m.loginNames = []string{"name", "email", "password"}
	m.loginIn = make([]textinput.Model, 3)
	for i, name := range m.loginNames {
		in := textinput.New()
		in.Placeholder = name
		in.CharLimit = 128
		if name == "password" {
			in.EchoMode = textinput.EchoPassword
		}
		m.loginIn[i] = in
	}
	m.loginIdx = 1 // email first, name only shown on sign-up
	m.loginIn[m.loginIdx].Focus()

	m.profileIn = make([]textinput.Model, len(profileLabels))
	for i := range m.profileIn {
		in := textinput.New()
		in.CharLimit = 128
		m.profileIn[i] = in
	}

	if acct, err := auth.Current(db); err != nil {
		logx.Warnf("session restore failed: %v", err)
	} else if acct != nil {
		m.account = acct
		m.enterGrid()
	}
	return m
}

// enterGrid switches to the editor screen and seeds the roster history from
// the stored copy, unless a file import is pending.
func (m *Model) enterGrid() {
	m.screen = screenGrid
	seed := model.EmptySnapshot()
	if m.cfg.FilePath == "" && !m.cfg.UseStdin {
		if snap, ok, err := m.db.LoadRoster(m.account.ID); err != nil {
			logx.Errorf("load roster: %v", err)
		} else if ok {
			seed = snap
		}
	}
	m.hist.Reset(seed)
	m.hist.SetObserver(func(s model.Snapshot) {
		m.dirty = true
		if err := m.db.SaveRoster(m.account.ID, s); err != nil {
			logx.Errorf("save roster: %v", err)
		} else {
			m.dirty = false
		}
	})
	m.refresh()
}

func (m *Model) startupCmds() tea.Cmd {
	var cmds []tea.Cmd
	cmds = append(cmds, m.spin.Tick)
	if m.screen == screenGrid {
		if m.cfg.FilePath != "" || m.cfg.UseStdin {
			cmds = append(cmds, importCmd(m.cfg.FilePath, m.cfg.UseStdin))
		}
		if m.cfg.Follow {
			cmds = append(cmds, m.startFollow())
		}
	}
	return tea.Batch(cmds...)
}

func Run(ctx context.Context, cfg *config.Config) error {
	db, err := store.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()
	m := initialModel(ctx, cfg, db)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.startupCmds()
}
