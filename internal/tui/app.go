package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/jonsai/internal"
)

// Screen selects what the program shows
type Screen int

const (
	ScreenHome Screen = iota
	ScreenChat
	ScreenImage
)

const (
	homeTitle      = "Jon's AI"
	chatTitle      = "Jon's AI Assistant"
	imageTitle     = "Jon's Image Generation"
	welcomeText    = "👋 Welcome! Send a message to start chatting."
	generatingText = "Generating image..."
)

var menuItems = []struct {
	label  string
	screen Screen
}{
	{"Open Chat", ScreenChat},
	{"Generate Image", ScreenImage},
}

type submitDoneMsg struct {
	result *internal.SubmitResult
	err    error
}

type imageDoneMsg struct {
	result *internal.ImageResult
}

// Model is the bubbletea model for the home, chat and image screens
type Model struct {
	ctx    context.Context
	chat   *internal.ConversationController
	studio *internal.ImageStudio

	screen Screen
	cursor int
	width  int
	height int

	chatInput  textinput.Model
	imageInput textinput.Model
	spinner    spinner.Model
	viewport   viewport.Model
	renderer   *glamour.TermRenderer

	chatBusy bool
	inflight string
	sentLen  int
	queued   []string
	err      error

	imageBusy bool
}

// New creates a model showing start
func New(ctx context.Context, chat *internal.ConversationController, studio *internal.ImageStudio, start Screen) Model {
	ci := textinput.New()
	ci.Placeholder = "Type your message..."
	ci.Prompt = "│ "
	ci.CharLimit = 4096
	ci.Width = 76

	ii := textinput.New()
	ii.Placeholder = "Describe the image you want..."
	ii.Prompt = "│ "
	ii.CharLimit = 1000
	ii.Width = 76

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:        ctx,
		chat:       chat,
		studio:     studio,
		width:      80,
		height:     24,
		chatInput:  ci,
		imageInput: ii,
		spinner:    sp,
		viewport:   viewport.New(78, 16),
		renderer:   newRenderer(76),
	}
	m.enter(start)
	m.refresh()
	return m
}

// Run starts an interactive program on start and blocks until the user quits
func Run(ctx context.Context, chat *internal.ConversationController, studio *internal.ImageStudio, start Screen) error {
	p := tea.NewProgram(New(ctx, chat, studio, start), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}

func newRenderer(wrap int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		internal.LogDebug("Markdown renderer unavailable: %v", err)
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd {
	if m.screen == ScreenHome {
		return nil
	}
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case ScreenHome:
			return m.updateHome(msg)
		case ScreenChat:
			return m.updateChat(msg)
		case ScreenImage:
			return m.updateImage(msg)
		}

	case spinner.TickMsg:
		if m.chatBusy || m.imageBusy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case submitDoneMsg:
		m.chatBusy = false
		m.inflight = ""
		m.err = msg.err
		if len(m.queued) > 0 {
			next := m.queued[0]
			m.queued = m.queued[1:]
			return m.dispatch(next)
		}
		m.refresh()

	case imageDoneMsg:
		m.imageBusy = false
	}

	return m, nil
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k", "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "right", "l", "tab":
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}
	case "enter":
		m.enter(menuItems[m.cursor].screen)
		m.refresh()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.enter(ScreenHome)
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case "enter":
		text := m.chatInput.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.chatInput.Reset()
		if m.chatBusy {
			m.queued = append(m.queued, text)
			m.refresh()
			return m, nil
		}
		return m.dispatch(text)
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m Model) updateImage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.enter(ScreenHome)
		return m, nil
	case "enter":
		prompt := m.imageInput.Value()
		if strings.TrimSpace(prompt) == "" || m.imageBusy {
			return m, nil
		}
		m.imageBusy = true
		return m, tea.Batch(m.spinner.Tick, generateCmd(m.ctx, m.studio, prompt))
	}

	var cmd tea.Cmd
	m.imageInput, cmd = m.imageInput.Update(msg)
	return m, cmd
}

// dispatch starts a submission. Only one is handed to the controller at a time so the
// on-screen order matches the order of entry.
func (m Model) dispatch(text string) (tea.Model, tea.Cmd) {
	m.chatBusy = true
	m.inflight = text
	m.sentLen = len(m.chat.Messages())
	m.err = nil
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, submitCmd(m.ctx, m.chat, text))
}

func submitCmd(ctx context.Context, chat *internal.ConversationController, text string) tea.Cmd {
	return func() tea.Msg {
		res, err := chat.Submit(ctx, text)
		return submitDoneMsg{result: res, err: err}
	}
}

func generateCmd(ctx context.Context, studio *internal.ImageStudio, prompt string) tea.Cmd {
	return func() tea.Msg {
		return imageDoneMsg{result: studio.Generate(ctx, prompt)}
	}
}

func (m *Model) enter(s Screen) {
	m.screen = s
	m.chatInput.Blur()
	m.imageInput.Blur()
	switch s {
	case ScreenChat:
		m.chatInput.Focus()
	case ScreenImage:
		m.imageInput.Focus()
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	// header, spinner line, input, help
	chrome := 7
	m.viewport.Width = max(width-2, 10)
	m.viewport.Height = max(height-chrome, 3)
	m.chatInput.Width = max(width-4, 10)
	m.imageInput.Width = max(width-4, 10)
	if m.renderer != nil {
		m.renderer = newRenderer(max(width-6, 20))
	}
	m.refresh()
}

// refresh redraws the transcript into the viewport
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m Model) renderHistory() string {
	messages := m.chat.Messages()
	if len(messages) == 0 && m.inflight == "" && len(m.queued) == 0 {
		return welcomeStyle.Render(welcomeText)
	}

	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(m.renderMessage(msg.Role, msg.Content))
	}
	// The controller appends the user message once it picks the submission up
	if m.chatBusy && len(messages) == m.sentLen {
		b.WriteString(m.renderMessage(internal.RoleUser, m.inflight))
	}
	for _, text := range m.queued {
		b.WriteString(dimStyle.Render("queued: "+text) + "\n")
	}
	return b.String()
}

func (m Model) renderMessage(role internal.Role, content string) string {
	if role == internal.RoleUser {
		return userRoleStyle.Render("You") + "\n" + userContentStyle.Render(content) + "\n\n"
	}
	return assistantRoleStyle.Render(homeTitle) + "\n" + m.renderMarkdown(content) + "\n\n"
}

func (m Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

func (m Model) View() string {
	switch m.screen {
	case ScreenChat:
		return m.viewChat()
	case ScreenImage:
		return m.viewImage()
	default:
		return m.viewHome()
	}
}

func (m Model) viewHome() string {
	buttons := make([]string, 0, len(menuItems))
	for i, item := range menuItems {
		style := idleButtonStyle
		if i == m.cursor {
			style = chatButtonStyle
			if item.screen == ScreenImage {
				style = imageButtonStyle
			}
		}
		buttons = append(buttons, style.Render(item.label))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(homeTitle),
		lipgloss.JoinHorizontal(lipgloss.Top, buttons[0], "  ", buttons[1]),
		"",
		helpStyle.Render("←/→ ↑/↓ select • enter open • q quit"),
	)
}

func (m Model) viewChat() string {
	var status string
	switch {
	case m.chatBusy:
		status = m.spinner.View() + " Thinking..."
	case m.err != nil:
		status = errorStyle.Render(m.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(chatTitle),
		m.viewport.View(),
		status,
		m.chatInput.View(),
		helpStyle.Render("enter send • pgup/pgdown scroll • esc back • ctrl+c quit"),
	)
}

func (m Model) viewImage() string {
	lines := []string{
		headerStyle.Render(imageTitle),
		"",
		m.imageInput.View(),
		"",
	}

	switch last := m.studio.Last(); {
	case m.imageBusy:
		lines = append(lines, m.spinner.View()+" "+generatingText)
	case last == nil:
	case last.Error != "":
		lines = append(lines, errorStyle.Render(last.Error))
	default:
		lines = append(lines, dimStyle.Render(last.Prompt), linkStyle.Render(last.ImageURL))
	}

	lines = append(lines, "", helpStyle.Render("enter generate • esc back • ctrl+c quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
