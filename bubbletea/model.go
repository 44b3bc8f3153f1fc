package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JyothikaKancharla/chatbot"
	"github.com/JyothikaKancharla/chatbot/goldmark"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

var _ tea.Model = Model{}

const helpText = "Enter send · ^N new · ^↑/^↓ switch · ^D delete · ^L clear · ^E export · ^T theme · ^O attach · ^R reload · ^C quit"

type statusKind int

const (
	statusInfo statusKind = iota
	statusWarning
	statusError
)

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable conversation area. Exported for test access.
	Viewport viewport.Model

	store   *chatbot.Store
	replier chatbot.Replier
	themes  *chatbot.ThemeController
	logger  *slog.Logger

	exportDir      string
	attachDir      string
	attachPatterns []string
	location       *time.Location
	replyTimeout   time.Duration

	styles   Styles
	markdown *goldmark.Renderer
	spinner  spinner.Model

	view       chatbot.View
	blocks     []MessageBlock
	cleared    bool // history was just cleared; show the cleared welcome
	waiting    bool
	cancel     context.CancelFunc
	confirm    *chatbot.Confirmation
	status     string
	statusKind statusKind

	width  int
	height int
	ready  bool
}

// Option configures a [Model].
type Option func(*Model)

// WithExportDir sets where exported sessions are written. Default is the
// working directory.
func WithExportDir(dir string) Option {
	return func(m *Model) { m.exportDir = dir }
}

// WithAttachments sets the directory and doublestar patterns offered by
// the attach key.
func WithAttachments(dir string, patterns []string) Option {
	return func(m *Model) {
		m.attachDir = dir
		m.attachPatterns = patterns
	}
}

// WithLocation sets the time zone used in exported documents. Default is
// time.Local.
func WithLocation(loc *time.Location) Option {
	return func(m *Model) { m.location = loc }
}

// WithReplyTimeout bounds each reply exchange. Zero leaves the bound to
// the Replier.
func WithReplyTimeout(d time.Duration) Option {
	return func(m *Model) { m.replyTimeout = d }
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithWarning shows err in the status line at startup, typically the
// error returned while loading the store or theme.
func WithWarning(err error) Option {
	return func(m *Model) {
		if err != nil {
			m.setStatus(statusWarning, "Warning: "+err.Error())
		}
	}
}

// New creates a Model. Like opening the app fresh, it starts a new chat
// unless the active one is still empty or the store is read-only.
func New(store *chatbot.Store, replier chatbot.Replier, themes *chatbot.ThemeController, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a health question..."
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		Input:    ti,
		store:    store,
		replier:  replier,
		themes:   themes,
		logger:   slog.Default(),
		location: time.Local,
		spinner:  sp,
	}
	for _, o := range opts {
		o(&m)
	}
	m = m.restyle()

	if active, ok := store.Active(); !store.ReadOnly() && (!ok || len(active.Messages) > 0) {
		if _, err := store.StartNewChat(); err != nil {
			m = m.warn(err)
		}
	}
	return m.sync()
}

// Waiting returns whether a reply is in flight.
func (m Model) Waiting() bool { return m.waiting }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReplyMsg:
		return m.handleReply(msg)

	case ExportDoneMsg:
		if msg.Err != nil {
			m.logger.Error("export chat", "error", msg.Err)
			m.setStatus(statusError, "Export failed: "+msg.Err.Error())
		} else {
			m.setStatus(statusInfo, "Chat exported to "+msg.Path)
		}
		return m, nil

	case AttachDoneMsg:
		if msg.Err != nil {
			m.setStatus(statusError, "Attach failed: "+msg.Err.Error())
		} else {
			m.setStatus(statusInfo, chatbot.AttachmentNotice(msg.Names))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	if m.confirm == nil {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())

	sw := sidebarWidth(m.width)
	if sw == 0 {
		return b.String()
	}
	return joinColumns(renderSidebar(m.view.Sessions, sw, m.height, m.styles), b.String())
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	mainWidth := msg.Width
	if sw := sidebarWidth(msg.Width); sw > 0 {
		mainWidth -= sw + 1 // border
	}
	statusHeight := 1
	inputHeight := 1
	vpHeight := max(msg.Height-statusHeight-inputHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(mainWidth, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = mainWidth
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = max(mainWidth-3, 1)
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}
	if m.confirm != nil {
		return m.answerConfirm(msg), nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		if m.waiting {
			m.setStatus(statusInfo, "Still waiting for the last reply...")
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submit(text)

	case tea.KeyCtrlN:
		_, err := m.store.StartNewChat()
		m.clearStatus()
		return m.after(err), nil

	case tea.KeyCtrlUp:
		return m.step(-1), nil

	case tea.KeyCtrlDown:
		return m.step(1), nil

	case tea.KeyCtrlD:
		active, ok := m.store.Active()
		if !ok {
			m.setStatus(statusInfo, "No chat session active.")
			return m, nil
		}
		c, err := m.store.RequestDelete(active.ID)
		if err != nil {
			return m.warn(err), nil
		}
		m.confirm = &c
		m.setStatus(statusWarning, fmt.Sprintf("Delete chat %q? (y/n)", active.DisplayTitle()))
		return m, nil

	case tea.KeyCtrlL:
		c := m.store.RequestClear()
		m.confirm = &c
		m.setStatus(statusWarning, "Clear ALL chat history? This cannot be undone. (y/n)")
		return m, nil

	case tea.KeyCtrlE:
		return m.export()

	case tea.KeyCtrlT:
		name, err := m.themes.Toggle()
		m = m.restyle()
		m.setStatus(statusInfo, "Theme: "+string(name))
		if err != nil {
			m = m.warn(err)
		}
		return m.sync(), nil

	case tea.KeyCtrlO:
		return m, attachFiles(m.attachDir, m.attachPatterns)

	case tea.KeyCtrlR:
		if err := m.store.Reload(); err != nil {
			return m.after(err), nil
		}
		m.cleared = false
		m.setStatus(statusInfo, "Chat history reloaded.")
		return m.sync(), nil
	}

	// Only non-character keys reach the viewport so typing never scrolls.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.clearStatus()

	pending, err := m.store.Submit(text)
	if err != nil && !errors.Is(err, chatbot.ErrPersistence) {
		return m.warn(err), nil
	}
	m = m.after(err)

	if m.replier == nil {
		return m.handleReply(ReplyMsg{
			Pending: pending,
			Err:     &chatbot.ReplyError{Kind: chatbot.ReplyTransport, Err: errors.New("no reply backend configured")},
		})
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if m.replyTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), m.replyTimeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	m.cancel = cancel
	m.waiting = true
	return m, tea.Batch(fetchReply(ctx, m.replier, pending), m.spinner.Tick)
}

func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.waiting = false

	_, err := m.store.Resolve(msg.Pending, msg.Reply, msg.Err)
	switch {
	case errors.Is(err, chatbot.ErrSessionNotFound):
		m.setStatus(statusInfo, "Reply discarded: its chat was deleted.")
		err = nil
	case msg.Err != nil:
		m.setStatus(statusError, "Reply failed.")
	}
	return m.after(err), m.Input.Focus()
}

// answerConfirm settles the pending confirmation. Keys other than y and n
// are ignored while one is pending.
func (m Model) answerConfirm(msg tea.KeyMsg) Model {
	token := m.confirm.Token
	action := m.confirm.Action
	switch {
	case msg.Type == tea.KeyRunes && strings.EqualFold(string(msg.Runes), "y"):
		m.confirm = nil
		err := m.store.Confirm(token)
		if err != nil && !errors.Is(err, chatbot.ErrPersistence) {
			return m.warn(err)
		}
		if action == chatbot.ConfirmClear {
			m.cleared = true
			m.setStatus(statusInfo, "All chat history has been cleared.")
		} else {
			m.setStatus(statusInfo, "Chat deleted successfully.")
		}
		return m.after(err)

	case msg.Type == tea.KeyEsc || (msg.Type == tea.KeyRunes && strings.EqualFold(string(msg.Runes), "n")):
		m.confirm = nil
		if err := m.store.Cancel(token); err != nil && !errors.Is(err, chatbot.ErrDeclined) {
			return m.warn(err)
		}
		m.setStatus(statusInfo, "Cancelled.")
		return m
	}
	return m
}

// step moves the active session by delta in the sidebar order, stopping at
// either end.
func (m Model) step(delta int) Model {
	st := m.store.State()
	sessions := st.Sessions
	if len(sessions) == 0 {
		return m
	}
	next := 0
	if cur := st.Find(st.ActiveID); cur >= 0 {
		next = min(max(cur+delta, 0), len(sessions)-1)
		if next == cur {
			return m
		}
	}
	m.clearStatus()
	err := m.store.SelectSession(sessions[next].ID)
	if errors.Is(err, chatbot.ErrSessionNotFound) {
		_, err = m.store.StartNewChat()
	}
	return m.after(err)
}

func (m Model) export() (tea.Model, tea.Cmd) {
	doc, err := chatbot.Export(m.store.State(), m.location)
	switch {
	case errors.Is(err, chatbot.ErrNoActiveSession):
		m.setStatus(statusInfo, "No chat session active to export.")
		return m, nil
	case errors.Is(err, chatbot.ErrEmptySession):
		m.setStatus(statusInfo, "Current chat session is empty. Nothing to export.")
		return m, nil
	case err != nil:
		return m.warn(err), nil
	}
	return m, writeExport(m.exportDir, doc)
}

// after re-projects the store and surfaces a persistence warning, if any.
func (m Model) after(err error) Model {
	if err != nil {
		m = m.warn(err)
	}
	return m.sync()
}

func (m Model) warn(err error) Model {
	m.logger.Warn("chat action failed", "error", err)
	if errors.Is(err, chatbot.ErrPersistence) {
		m.setStatus(statusWarning, "Warning: changes may not be saved ("+err.Error()+")")
		return m
	}
	m.setStatus(statusError, "Error: "+err.Error())
	return m
}

// sync rebuilds blocks from the store's current state.
func (m Model) sync() Model {
	st := m.store.State()
	m.view = chatbot.Project(st)
	if _, ok := st.Active(); ok {
		m.cleared = false
	}

	placeholder := chatbot.Greeting
	if m.cleared {
		placeholder = chatbot.ClearedGreeting
	}
	m.blocks = blocksFor(m.view.Messages, placeholder, m.styles, m.markdown)
	if m.ready {
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
	}
	return m
}

func (m Model) restyle() Model {
	theme := chatbot.Palette(chatbot.ThemeLight)
	if m.themes != nil {
		theme = chatbot.Palette(m.themes.Current())
	}
	m.styles = NewStyles(theme)
	m.markdown = goldmark.NewRenderer(theme)
	m.spinner.Style = m.styles.Accent
	m.Input.PromptStyle = m.styles.UserMsg
	m.Input.PlaceholderStyle = m.styles.Muted
	return m
}

func (m Model) renderContent() string {
	if len(m.blocks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m *Model) clearStatus() {
	m.status = ""
}

func (m Model) statusLine() string {
	width := max(m.Viewport.Width, 1)
	if m.waiting {
		return m.spinner.View() + m.styles.Muted.Render(runewidth.Truncate(" Waiting for reply...", width-2, "…"))
	}
	if m.status != "" {
		text := runewidth.Truncate(m.status, width, "…")
		switch m.statusKind {
		case statusWarning:
			return m.styles.Warning.Render(text)
		case statusError:
			return m.styles.Error.Render(text)
		}
		return m.styles.Muted.Render(text)
	}
	return m.styles.Muted.Render(runewidth.Truncate(helpText, width, "…"))
}
