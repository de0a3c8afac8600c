package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/lgclient/internal/form"
	"github.com/diogo/lgclient/internal/models"
	"github.com/diogo/lgclient/internal/render"
)

// Form fields in focus order
const (
	fieldAPIKey = iota
	fieldAssistantID
	fieldContent
	fieldCount
)

const (
	minContentWidth  = 40
	responseHeight   = 10
	feedbackDuration = 2 * time.Second
)

// resultMsg carries the outcome of a submission back to Update
type resultMsg struct {
	result models.Result
}

// copiedMsg reports the outcome of a clipboard copy
type copiedMsg struct {
	err error
}

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// FormModel is the bubbletea model of the request form
type FormModel struct {
	ctx        context.Context
	controller *form.Controller

	apiKeyInput    textinput.Model
	assistantInput textinput.Model
	contentArea    textarea.Model
	focus          int

	spinner  spinner.Model
	viewport viewport.Model

	// lastCause is the typed error of the most recent failure, for hints
	lastCause error

	helpOpts render.Options
	showHelp bool
	helpText string

	feedback string
	copyFn   func(string) error

	width  int
	height int
	ready  bool
}

// NewFormModel creates a form model bound to controller. The inputs start
// from the controller's current values.
func NewFormModel(ctx context.Context, controller *form.Controller, helpOpts render.Options) FormModel {
	if ctx == nil {
		ctx = context.Background()
	}
	v := controller.Snapshot()

	key := textinput.New()
	key.Placeholder = "Enter your API key"
	key.EchoMode = textinput.EchoPassword
	key.EchoCharacter = '•'
	key.Width = 50
	key.SetValue(v.APIKey)

	assistant := textinput.New()
	assistant.Placeholder = "Enter assistant ID"
	assistant.Width = 50
	assistant.SetValue(v.AssistantID)

	ta := textarea.New()
	ta.Placeholder = "Enter your message"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(50)
	ta.SetHeight(6)
	ta.SetValue(v.MessageContent)

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	vp := viewport.New(50, responseHeight)

	m := FormModel{
		ctx:            ctx,
		controller:     controller,
		apiKeyInput:    key,
		assistantInput: assistant,
		contentArea:    ta,
		spinner:        s,
		viewport:       vp,
		helpOpts:       helpOpts,
		copyFn:         clipboard.WriteAll,
	}
	m.focusCurrentField()
	m.refreshResponse()
	return m
}

// Init starts the cursor blink
func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case resultMsg:
		m.controller.Complete(msg.result)
		m.lastCause = msg.result.Cause()
		m.refreshResponse()
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.feedback = fmt.Sprintf("Copy failed: %v", msg.err)
		} else {
			m.feedback = "Response copied to clipboard"
		}
		return m, clearFeedback(feedbackDuration)

	case feedbackClearMsg:
		m.feedback = ""
		return m, nil

	case spinner.TickMsg:
		if !m.controller.Snapshot().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, m.updateFocusedInput(msg)
}

// handleKeyMsg handles keyboard input
func (m FormModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "f1":
		m.showHelp = !m.showHelp
		if m.showHelp && m.helpText == "" {
			m.helpText = m.renderHelp()
		}
		return m, nil

	case "tab":
		m.blurCurrentField()
		m.focus = (m.focus + 1) % fieldCount
		m.focusCurrentField()
		return m, textinput.Blink

	case "shift+tab":
		m.blurCurrentField()
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		m.focusCurrentField()
		return m, textinput.Blink

	case "ctrl+s":
		return m.submit()

	case "ctrl+y":
		v := m.controller.Snapshot()
		if !v.ShowResponse() {
			return m, nil
		}
		return m, copyResponse(m.copyFn, v.Response)

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.showHelp {
		return m, nil
	}
	return m, m.updateFocusedInput(msg)
}

// submit starts a request unless one is already in flight
func (m FormModel) submit() (tea.Model, tea.Cmd) {
	s, err := m.controller.Begin()
	if errors.Is(err, form.ErrSubmitDisabled) {
		return m, nil
	}
	if err != nil {
		m.lastCause = err
		m.refreshResponse()
		return m, nil
	}

	m.lastCause = nil
	m.refreshResponse()
	return m, tea.Batch(m.spinner.Tick, runSubmission(m.ctx, s))
}

// runSubmission runs s off the UI goroutine
func runSubmission(ctx context.Context, s *form.Submission) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{result: s.Run(ctx)}
	}
}

// copyResponse writes text to the clipboard
func copyResponse(copyFn func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: copyFn(text)}
	}
}

func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// updateFocusedInput forwards msg to the focused field and pushes its value
// to the controller
func (m *FormModel) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch m.focus {
	case fieldAPIKey:
		before := m.apiKeyInput.Value()
		m.apiKeyInput, cmd = m.apiKeyInput.Update(msg)
		if value := m.apiKeyInput.Value(); value != before {
			m.controller.SetAPIKey(value)
			m.refreshResponse()
		}
	case fieldAssistantID:
		before := m.assistantInput.Value()
		m.assistantInput, cmd = m.assistantInput.Update(msg)
		if value := m.assistantInput.Value(); value != before {
			m.controller.SetAssistantID(value)
			m.refreshResponse()
		}
	case fieldContent:
		before := m.contentArea.Value()
		m.contentArea, cmd = m.contentArea.Update(msg)
		if value := m.contentArea.Value(); value != before {
			m.controller.SetMessageContent(value)
			m.refreshResponse()
		}
	}

	return cmd
}

// blurCurrentField removes focus from the current field
func (m *FormModel) blurCurrentField() {
	switch m.focus {
	case fieldAPIKey:
		m.apiKeyInput.Blur()
	case fieldAssistantID:
		m.assistantInput.Blur()
	case fieldContent:
		m.contentArea.Blur()
	}
}

// focusCurrentField sets focus on the current field
func (m *FormModel) focusCurrentField() {
	switch m.focus {
	case fieldAPIKey:
		m.apiKeyInput.Focus()
	case fieldAssistantID:
		m.assistantInput.Focus()
	case fieldContent:
		m.contentArea.Focus()
	}
}

// resize fits the inputs and the response viewport to the window
func (m *FormModel) resize() {
	width := m.contentWidth() - 8
	m.apiKeyInput.Width = width
	m.assistantInput.Width = width
	m.contentArea.SetWidth(width)
	m.viewport.Width = width
	m.helpText = ""
	if m.showHelp {
		m.helpText = m.renderHelp()
	}
	m.refreshResponse()
}

// refreshResponse copies the response into the viewport
func (m *FormModel) refreshResponse() {
	v := m.controller.Snapshot()
	if !v.ShowResponse() {
		m.viewport.SetContent("")
		return
	}
	text := lipgloss.NewStyle().Width(m.viewport.Width).Render(v.DisplayResponse())
	m.viewport.SetContent(text)
	m.viewport.GotoTop()
}

func (m FormModel) contentWidth() int {
	width := m.width - 4
	if width < minContentWidth {
		width = minContentWidth
	}
	return width
}

// renderHelp renders the help panel, falling back to the raw markdown
func (m FormModel) renderHelp() string {
	out, err := render.Help(m.helpOpts.WithWidth(m.contentWidth() - 4))
	if err != nil {
		return render.HelpSource()
	}
	return out
}

// View renders the form
func (m FormModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	width := m.contentWidth()
	v := m.controller.Snapshot()

	sections := []string{m.renderHeader(width, v)}

	if m.showHelp {
		sections = append(sections, formPanelStyle.Width(width).Render(m.helpText))
	} else {
		sections = append(sections, m.renderForm(width, v))
		if panel := m.renderResult(width, v); panel != "" {
			sections = append(sections, panel)
		}
	}

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(width, v))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title and the state
func (m FormModel) renderHeader(width int, v form.View) string {
	title := titleStyle.Render("✦ LangGraph API Client")
	state := subtitleStyle.Render("  " + v.State.String())
	return headerStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Center, title, state))
}

// renderForm renders the three fields and the submit control
func (m FormModel) renderForm(width int, v form.View) string {
	fields := []string{
		m.renderFieldLabel("API Key", fieldAPIKey),
		"   " + m.apiKeyInput.View(),
		"",
		m.renderFieldLabel("Assistant ID", fieldAssistantID),
		"   " + m.assistantInput.View(),
		"",
		m.renderFieldLabel("Message Content", fieldContent),
		"   " + m.contentArea.View(),
		"",
		"   " + m.renderSubmit(v),
	}
	return formPanelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, fields...))
}

// renderFieldLabel renders a form field label with focus indication
func (m FormModel) renderFieldLabel(label string, field int) string {
	if m.focus == field {
		return fmt.Sprintf(" %s%s%s", fieldFocusedStyle.String(), titleStyle.Render(label), requiredMarkStyle.Render("*"))
	}
	return fmt.Sprintf(" %s%s", fieldLabelStyle.Render(label), requiredMarkStyle.Render("*"))
}

// renderSubmit renders the submit control, disabled while loading
func (m FormModel) renderSubmit(v form.View) string {
	if v.Loading {
		return m.spinner.View() + " " + buttonLoadingStyle.Render(v.SubmitLabel())
	}
	return buttonStyle.Render(v.SubmitLabel())
}

// renderResult renders exactly one of the response and error panels
func (m FormModel) renderResult(width int, v form.View) string {
	switch {
	case v.ShowError():
		return errorPanelStyle.Width(width).Render(FormatError(v.Error, m.lastCause))
	case v.ShowResponse():
		title := responseTitleStyle.Render("Response")
		return responsePanelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View()))
	default:
		return ""
	}
}

// renderStatusBar renders the bottom status bar
func (m FormModel) renderStatusBar(width int, v form.View) string {
	shortcuts := []struct {
		key      string
		desc     string
		disabled bool
	}{
		{"Tab", "Next", false},
		{"Ctrl+S", "Send", v.Loading},
		{"Ctrl+Y", "Copy", !v.ShowResponse()},
		{"F1", "Help", false},
		{"Esc", "Quit", false},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		if s.disabled {
			items = append(items, statusDisabledStyle.Render(s.key+" "+s.desc))
			continue
		}
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	return statusBarStyle.Width(width).Render(strings.Join(items, "  │  "))
}

// RunForm starts the terminal form and blocks until the user quits
func RunForm(ctx context.Context, controller *form.Controller, helpOpts render.Options) error {
	m := NewFormModel(ctx, controller, helpOpts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
