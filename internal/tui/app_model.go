package tui

import (
	"context"
	"time"

	"ideabox/internal/board"
	"ideabox/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const flashDuration = 3 * time.Second

// appModel owns the board and the queue. Update is the only place either
// is touched; backend operations run in commands and come back as
// outcomeMsg.
type appModel struct {
	ctx     context.Context
	backend store.Store
	b       *board.Board
	q       *board.Queue
	sem     *semaphore.Weighted
	log     *zap.Logger
	author  string

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	// animate enables timer driven commands (spinner ticks, flash expiry).
	animate bool

	search        textinput.Model
	searchFocused bool
	modal         modalKind
	ideaForm      ideaForm
	commentForm   commentForm
	confirmFocus  confirmModalFocus
	// The idea the open delete or comment modal acts on.
	deleteID      int64
	deleteTitle   string
	commentIdeaID int64
	width, height int
	inFlight      int
	quitArmed     bool
	status        string
	statusIsError bool
	flashSeq      int

	// Temp file handed to $EDITOR and the body before editing.
	editorPath   string
	editorBefore string

	copyFn func(string) error
}

type modelOptions struct {
	Author  string
	Workers int
	Timeout time.Duration
	Logger  *zap.Logger
}

func newAppModel(ctx context.Context, st store.Store, records []board.Record, opt modelOptions) appModel {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var sem *semaphore.Weighted
	if opt.Workers > 0 {
		sem = semaphore.NewWeighted(int64(opt.Workers))
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "filter by title"
	search.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = stylePending()

	return appModel{
		ctx:     ctx,
		backend: st,
		b:       board.New(records),
		q: board.NewQueue(board.QueueOptions{
			Workers: opt.Workers,
			Timeout: opt.Timeout,
			Logger:  log,
		}),
		sem:     sem,
		log:     log,
		author:  opt.Author,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		animate: true,
		search:  search,
		width:   100,
		height:  30,
		copyFn:  copyToClipboard,
	}
}

func (m appModel) Init() tea.Cmd {
	if !m.animate {
		return nil
	}
	return m.spinner.Tick
}

// dispatch hands every queued job to a command. With a worker bound, at
// most that many operations hold the backend at once; the rest wait on the
// semaphore.
func (m *appModel) dispatch() tea.Cmd {
	jobs := m.q.Take()
	if len(jobs) == 0 {
		return nil
	}
	ctx, q, be, sem := m.ctx, m.q, m.backend, m.sem
	cmds := make([]tea.Cmd, 0, len(jobs)+1)
	for _, j := range jobs {
		j := j
		m.inFlight++
		cmds = append(cmds, func() tea.Msg {
			if sem != nil {
				if err := sem.Acquire(ctx, 1); err != nil {
					return outcomeMsg{outcome: board.Outcome{Job: j, Err: err}}
				}
				defer sem.Release(1)
			}
			return outcomeMsg{outcome: q.Run(ctx, be, j)}
		})
	}
	if m.animate && m.inFlight == len(jobs) {
		// The spinner stopped ticking while idle.
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *appModel) flash(msg string, isErr bool) tea.Cmd {
	m.status = msg
	m.statusIsError = isErr
	m.flashSeq++
	if !m.animate {
		return nil
	}
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func (m appModel) reload() tea.Cmd {
	ctx, be := m.ctx, m.backend
	return func() tea.Msg {
		recs, err := be.Load(ctx)
		return reloadMsg{records: recs, err: err}
	}
}

// busy reports whether closing now would drop work.
func (m appModel) busy() bool {
	return m.inFlight > 0 || m.q.Len() > 0
}

// restoreState reapplies the filter and cursor from a previous session.
func (m *appModel) restoreState(st store.TUIState) {
	if st.Filter != "" {
		m.b.SetFilter(st.Filter)
		m.search.SetValue(st.Filter)
	}
	if st.SelectedIdeaID == 0 {
		return
	}
	for i, e := range m.b.Visible() {
		if e.Idea.Value().ID == st.SelectedIdeaID {
			m.b.Select(i)
			return
		}
	}
}

func (m appModel) state() store.TUIState {
	st := store.TUIState{Version: 1, Filter: m.b.Filter()}
	if cur, ok := m.b.Current(); ok {
		st.SelectedIdeaID = cur.Idea.Value().ID
	}
	return st
}
