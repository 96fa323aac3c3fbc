package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"rollgrid/internal/ai"
	"rollgrid/internal/config"
	"rollgrid/internal/ingest"
	"rollgrid/internal/model"
	"rollgrid/internal/mutate"
	"rollgrid/internal/store"
	"rollgrid/internal/view"
)

type screen int

const (
	screenLogin screen = iota
	screenGrid
)

type inlineMode int

const (
	inlineNone inlineMode = iota
	inlineEditCell
	inlineFilter
	inlineExpr
	inlineSearch
	inlineBatch
	inlineAddColumn
	inlineRenameColumn
	inlineExport
	inlineDictate
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalLogs
	modalAnalysis
	modalAccounts
	modalProfile
	modalConfirmDeleteRows
	modalConfirmDeleteColumn
	modalConfirmClear
)

type Model struct {
	ctx context.Context
	cfg *config.Config

	db      *store.DB
	account *store.Account

	// Roster state
	hist     *model.History
	criteria view.Criteria
	proj     *view.Projector
	sortSpec *view.SortSpec
	rows     []model.Record
	selected mutate.IDSet
	hidden   map[string]bool

	// Grid cursor
	cursor    int
	rowOffset int
	selColIdx int
	colOffset int

	// Follow pipeline
	followRows <-chan ingest.Row
	followErrs <-chan error
	gotHeader  bool

	// AI
	extractor ai.FieldExtractor
	analyzer  ai.Analyzer
	aiSeq     int
	aiBusy    bool

	// Inline input
	inlineMode inlineMode
	input      textinput.Model

	// Search navigation
	searchPattern string
	searchHits    []int
	searchIdx     int

	// Modal popup
	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string
	accounts    []store.Account
	accountsIdx int
	profileIn   []textinput.Model
	profileIdx  int

	// Login screen
	screen     screen
	signup     bool
	loginIn    []textinput.Model
	loginIdx   int
	loginErr   string
	loginNames []string

	styles     Styles
	keymap     KeyMap
	spin       spinner.Model
	termWidth  int
	termHeight int
	lastMsg    string
	dirty      bool
}

// Messages

type importedMsg struct {
	snap model.Snapshot
	name string
	err  error
}

type exportedMsg struct {
	path string
	err  error
}

type extractMsg struct {
	seq    int
	fields map[string]string
	err    error
}

type analysisMsg struct {
	seq  int
	text string
	err  error
}

type followRowMsg struct {
	row ingest.Row
	ok  bool
}

type followErrMsg struct{ err error }
