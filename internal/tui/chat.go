// Package tui implements the interactive terminal chat client.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/planora/internal/engine"
	"github.com/felixgeelhaar/planora/internal/plan"
	"github.com/felixgeelhaar/planora/internal/session"
	"github.com/felixgeelhaar/planora/internal/stage"
)

// turnTimeout bounds a single conversational turn, which makes up to two
// model calls.
const turnTimeout = 5 * time.Minute

type chatEntry struct {
	role    string // "user" or "assistant"
	content string
	time    time.Time
}

// Messages for tea updates
type (
	turnDoneMsg struct {
		reply string
		stage stage.Stage
	}
	turnErrMsg struct{ err error }
)

// ChatModel is the bubbletea model for the chat client.
type ChatModel struct {
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   Styles

	controller *engine.Controller
	store      session.Store
	assembler  *plan.Assembler
	sess       *session.Session

	history   []chatEntry
	isLoading bool
	err       error
	planOut   string
	width     int
	height    int
	ready     bool
	quitting  bool
}

// NewChatModel creates the chat model. When sess is nil a fresh session is
// started.
func NewChatModel(controller *engine.Controller, store session.Store, sess *session.Session) ChatModel {
	if sess == nil {
		sess = session.New()
	}

	ta := textarea.New()
	ta.Placeholder = "Describe your project... (Enter to send, Ctrl+C to quit)"
	ta.Focus()
	ta.Prompt = "│ "
	ta.CharLimit = 4096
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(80, 20)

	m := ChatModel{
		textarea:   ta,
		viewport:   vp,
		spinner:    sp,
		styles:     DefaultStyles(),
		controller: controller,
		store:      store,
		assembler:  plan.NewAssembler(nil),
		sess:       sess,
	}

	// Resuming a session replays its transcript.
	for _, msg := range sess.Messages {
		m.history = append(m.history, chatEntry{role: msg.Role, content: msg.Content, time: msg.Timestamp})
	}
	m.viewport.SetContent(m.renderHistory())

	return m
}

// Session returns the underlying session, for inspection after Run.
func (m ChatModel) Session() *session.Session {
	return m.sess
}

func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit

		case tea.KeyEnter:
			if !m.isLoading {
				return m.handleSubmit()
			}
			return m, nil
		}

		if !m.isLoading {
			m.textarea, taCmd = m.textarea.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		inputHeight := 5
		footerHeight := 2

		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, msg.Height-headerHeight-inputHeight-footerHeight)
			m.viewport.SetContent(m.renderHistory())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = msg.Height - headerHeight - inputHeight - footerHeight
		}
		m.textarea.SetWidth(msg.Width - 4)

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case turnDoneMsg:
		m.isLoading = false
		m.err = nil
		m.history = append(m.history, chatEntry{role: "assistant", content: msg.reply, time: time.Now()})
		if m.sess.IsComplete && m.planOut == "" {
			if compiled, err := m.assembler.Compile(m.sess); err == nil {
				m.planOut = plan.RenderMarkdown(compiled)
			}
		}
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()

	case turnErrMsg:
		m.isLoading = false
		m.err = msg.err
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(taCmd, vpCmd, spCmd)
}

func (m ChatModel) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return m, nil
	}

	m.history = append(m.history, chatEntry{role: "user", content: input, time: time.Now()})
	m.textarea.Reset()
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
	m.isLoading = true

	return m, tea.Batch(m.spinner.Tick, m.runTurn(input))
}

func (m ChatModel) runTurn(input string) tea.Cmd {
	sess := m.sess
	controller := m.controller
	store := m.store

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()

		reply, err := controller.ProcessTurn(ctx, sess, input)
		if err != nil {
			return turnErrMsg{err: err}
		}
		if err := store.Save(ctx, sess); err != nil {
			return turnErrMsg{err: err}
		}
		return turnDoneMsg{reply: reply, stage: sess.CurrentStage}
	}
}

func (m ChatModel) renderHistory() string {
	var sb strings.Builder

	for _, entry := range m.history {
		if entry.role == "user" {
			sb.WriteString(m.styles.UserLabel.Render("You") + "\n")
			sb.WriteString(entry.content)
			sb.WriteString("\n\n")
		} else {
			sb.WriteString(m.styles.AssistantLabel.Render("Planora") + "\n")
			sb.WriteString(entry.content)
			sb.WriteString("\n\n")
		}
	}

	if m.planOut != "" {
		sb.WriteString(m.styles.Rule.Render(strings.Repeat("─", 40)))
		sb.WriteString("\n")
		sb.WriteString(m.planOut)
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m ChatModel) View() string {
	if m.quitting {
		return fmt.Sprintf("Session %s saved.\n", m.sess.ID)
	}
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()

	chatView := m.viewport.View()
	if m.isLoading {
		chatView += "\n" + m.spinner.View() + " Thinking..."
	}
	if m.err != nil {
		chatView += "\n" + m.styles.Error.Render("Error: "+m.err.Error())
	}

	inputArea := m.styles.InputBorder.Render(m.textarea.View())
	footer := m.styles.Help.Render("Enter send • Ctrl+C quit • Session " + m.sess.ID)

	return lipgloss.JoinVertical(lipgloss.Left, header, chatView, inputArea, footer)
}

func (m ChatModel) renderHeader() string {
	title := m.styles.Title.Render(" planora ")

	var status string
	if m.sess.IsComplete {
		status = m.styles.Success.Render("Plan complete")
	} else {
		status = m.styles.Status.Render(fmt.Sprintf("%s (%d%%)",
			stage.Label(m.sess.CurrentStage), stage.Progress(m.sess.CurrentStage)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", status) + "\n" +
		m.renderProgressBar()
}

// renderProgressBar draws a fixed-width bar tracking stage progress.
func (m ChatModel) renderProgressBar() string {
	const barWidth = 30
	filled := stage.Progress(m.sess.CurrentStage) * barWidth / 100
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return m.styles.Progress.Render(bar)
}

// Run starts the chat TUI and blocks until the user quits.
func Run(controller *engine.Controller, store session.Store, sess *session.Session) (*session.Session, error) {
	model := NewChatModel(controller, store, sess)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run TUI: %w", err)
	}

	final, ok := finalModel.(ChatModel)
	if !ok {
		return nil, fmt.Errorf("invalid final model type")
	}
	return final.Session(), nil
}
