package tui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// PushProgressUI displays the progress of one push.
// Report may be called from several goroutines.
type PushProgressUI interface {
	// Start shows the title and begins rendering
	Start(title string)
	// Report updates the percentage and phase message
	Report(percent int, message string)
	// Complete stops rendering; err is nil on success
	Complete(err error)
}

// NewPushProgressUI creates the appropriate progress UI based on TTY availability
func NewPushProgressUI(splog *Splog) PushProgressUI {
	if IsTTY() {
		return NewTTYPushProgress(splog)
	}
	return NewSimplePushProgress(splog)
}

// SimplePushProgress prints each new phase message on its own line (non-TTY)
type SimplePushProgress struct {
	splog       *Splog
	mu          sync.Mutex
	lastMessage string
}

// NewSimplePushProgress creates a new simple progress UI
func NewSimplePushProgress(splog *Splog) *SimplePushProgress {
	return &SimplePushProgress{splog: splog}
}

func (p *SimplePushProgress) Start(title string) {
	p.splog.Info(title)
}

func (p *SimplePushProgress) Report(percent int, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if message == p.lastMessage {
		return
	}
	p.lastMessage = message
	p.splog.Info("  [%3d%%] %s", percent, message)
}

func (p *SimplePushProgress) Complete(err error) {
	if err != nil {
		p.splog.Debug("Push failed after: %s", p.lastMessage)
	}
}

// TTYPushProgress uses bubbletea for an animated progress bar (TTY)
type TTYPushProgress struct {
	splog   *Splog
	program *tea.Program
	done    chan struct{}
}

// NewTTYPushProgress creates a new TTY progress UI
func NewTTYPushProgress(splog *Splog) *TTYPushProgress {
	return &TTYPushProgress{splog: splog}
}

func (p *TTYPushProgress) Start(title string) {
	p.splog.SetQuiet(true)
	p.program = tea.NewProgram(newPushProgressModel(title), tea.WithInput(nil), tea.WithOutput(os.Stdout))
	p.done = make(chan struct{})

	// Run program in background
	go func() {
		defer close(p.done)
		_, _ = p.program.Run()
	}()
}

func (p *TTYPushProgress) Report(percent int, message string) {
	if p.program == nil {
		return
	}
	p.program.Send(pushReportMsg{percent: percent, message: message})
}

func (p *TTYPushProgress) Complete(err error) {
	if p.program == nil {
		return
	}
	p.program.Send(pushDoneMsg{err: err})
	<-p.done
	p.splog.SetQuiet(false)
}

type pushReportMsg struct {
	percent int
	message string
}

type pushDoneMsg struct {
	err error
}

// pushProgressModel renders a spinner, the current phase and a progress bar
type pushProgressModel struct {
	title   string
	percent int
	message string
	spinner spinner.Model
	bar     progress.Model
	done    bool
	err     error
	styles  pushStyles
}

type pushStyles struct {
	title   lipgloss.Style
	message lipgloss.Style
	done    lipgloss.Style
	error   lipgloss.Style
}

func newPushProgressModel(title string) pushProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return pushProgressModel{
		title:   title,
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		styles: pushStyles{
			title:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
			message: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			done:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		},
	}
}

func (m pushProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m pushProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pushReportMsg:
		if msg.percent > m.percent {
			m.percent = msg.percent
		}
		m.message = msg.message
		return m, nil

	case pushDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

func (m pushProgressModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.title))
	b.WriteString("\n")

	var icon string
	switch {
	case m.done && m.err != nil:
		icon = m.styles.error.Render("✗")
	case m.done:
		icon = m.styles.done.Render("✓")
	default:
		icon = m.spinner.View()
	}
	b.WriteString(fmt.Sprintf("  %s %s\n", icon, m.styles.message.Render(m.message)))
	b.WriteString("  " + m.bar.ViewAs(float64(m.percent)/100) + "\n")

	if m.done && m.err != nil {
		b.WriteString("  " + m.styles.error.Render(m.err.Error()) + "\n")
	}
	return b.String()
}

// IsTTY returns true if we can use a TTY for interactive TUI
func IsTTY() bool {
	// First check if stdin/stdout are terminals
	if !((isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))) {
		return false
	}
	// Also try to open /dev/tty to verify it's actually available
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
