// Package display provides the terminal UI using Bubble Tea.
//
// The view is driven entirely by the conversation store: the UI
// subscribes to store events and repaints on every change, so messages
// dripped in by the scheduler appear without any UI-side polling.
package display

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/auralab/companion/internal/aura"
	"github.com/auralab/companion/internal/conversation"
	"github.com/auralab/companion/internal/service/personasvc"
	"github.com/auralab/companion/internal/session"
)

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	companionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	typingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8")).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))
)

// UI wires the Bubble Tea program to the conversation state.
type UI struct {
	store    *conversation.Store
	sess     *session.Session
	personas *personasvc.Service
	deriver  *aura.Deriver
	program  *tea.Program
}

// NewUI creates the display. Call Run() to start.
func NewUI(store *conversation.Store, sess *session.Session, personas *personasvc.Service, deriver *aura.Deriver) *UI {
	return &UI{
		store:    store,
		sess:     sess,
		personas: personas,
		deriver:  deriver,
	}
}

// Run starts the event loop and blocks until quit. Store changes made by
// any goroutine repaint the view via Program.Send.
func (u *UI) Run(ctx context.Context) error {
	ti := textinput.New()
	ti.Prompt = "you> "
	ti.PromptStyle = promptStyle
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		ctx:      ctx,
		store:    u.store,
		sess:     u.sess,
		personas: u.personas,
		deriver:  u.deriver,
		input:    ti,
	}

	u.program = tea.NewProgram(m)

	unsubscribe := u.store.Subscribe(func(conversation.Event) {
		u.program.Send(stateChangedMsg{})
	})
	defer unsubscribe()

	_, err := u.program.Run()
	return err
}

type model struct {
	ctx      context.Context
	store    *conversation.Store
	sess     *session.Session
	personas *personasvc.Service
	deriver  *aura.Deriver
	input    textinput.Model
	width    int
	errText  string
}

// Messages.
type stateChangedMsg struct{}
type sendResultMsg struct{ err error }
type resetResultMsg struct{ err error }

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			sess := m.sess
			ctx := m.ctx
			return m, func() tea.Msg {
				sess.EndChat(ctx)
				return tea.Quit()
			}
		case tea.KeyCtrlP:
			m.applyNextPersona()
			return m, nil
		case tea.KeyCtrlR:
			sess := m.sess
			ctx := m.ctx
			return m, func() tea.Msg {
				return resetResultMsg{err: sess.Reset(ctx)}
			}
		case tea.KeyEnter:
			text := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(text) == "" {
				return m, nil
			}
			m.errText = ""
			sess := m.sess
			ctx := m.ctx
			return m, func() tea.Msg {
				return sendResultMsg{err: sess.Send(ctx, text)}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		const promptLen = 5
		if msg.Width > promptLen {
			m.input.Width = msg.Width - promptLen
		}
		return m, nil

	case stateChangedMsg:
		return m, nil

	case sendResultMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
		}
		return m, nil

	case resetResultMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder

	name := m.sess.AppliedPersona().Name
	if name == "" {
		name = "Companion"
	}
	b.WriteString(headerStyle.Render(name))
	b.WriteString("  ")
	b.WriteString(typingStyle.Render("enter: send  ctrl+p: persona  ctrl+r: reset  ctrl+c: quit"))
	b.WriteByte('\n')

	stops := m.deriver.Mood(m.store.Emotions())
	b.WriteString(renderAuraBar(stops, m.barWidth()))
	b.WriteByte('\n')
	b.WriteByte('\n')

	for _, line := range renderMessages(m.store.Messages(), name, 12) {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if m.store.Typing() {
		b.WriteString(typingStyle.Render(name + " is typing..."))
		b.WriteByte('\n')
	}
	if m.errText != "" {
		b.WriteString(errStyle.Render(m.errText))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

// applyNextPersona cycles through the catalog and applies the next
// persona's configuration to the live conversation.
func (m model) applyNextPersona() {
	list := m.personas.Catalog().List()
	if len(list) == 0 {
		return
	}
	next := 0
	if id := m.personas.Catalog().AppliedID(); id != "" {
		for i, p := range list {
			if p.ID == id {
				next = (i + 1) % len(list)
				break
			}
		}
	}
	m.personas.Apply(list[next], m.sess)
}

func (m model) barWidth() int {
	if m.width > 0 {
		return m.width
	}
	return 80
}

// renderAuraBar paints the gradient as a row of background-colored cells,
// sampling the stop list once per column.
func renderAuraBar(stops []aura.Stop, width int) string {
	if width < 1 {
		width = 1
	}
	var b strings.Builder
	for i := 0; i < width; i++ {
		t := 0.0
		if width > 1 {
			t = float64(i) / float64(width-1)
		}
		c := aura.Sample(stops, t)
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render(" "))
	}
	return b.String()
}

// renderMessages formats the newest messages, oldest first.
func renderMessages(msgs []conversation.Message, companionName string, limit int) []string {
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if msg.IsFromUser {
			lines = append(lines, userStyle.Render(fmt.Sprintf("you> %s", msg.Content)))
		} else {
			lines = append(lines, companionStyle.Render(fmt.Sprintf("%s> %s", companionName, msg.Content)))
		}
	}
	return lines
}
