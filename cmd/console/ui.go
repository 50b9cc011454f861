package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/story-arena/pkg/game"
	"github.com/jwebster45206/story-arena/pkg/journal"
	"github.com/muesli/reflow/wordwrap"
)

const (
	NamePlaceholder = "Enter your character's name..."
	PlayPlaceholder = "1 fight, 2 heal, 3 save, 4 exit, /help"
)

type phase int

const (
	phaseStart phase = iota
	phaseName
	phasePlay
)

var startOptions = []string{"New Game", "Load Game"}

// storyLine is one rendered entry of the story panel.
type storyLine struct {
	text  string
	style lipgloss.Style
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	ctx     context.Context
	session *game.Session
	feed    *journal.Memory
	slot    string

	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	lines        []storyLine

	phase         phase
	selected      int
	ready         bool
	width         int
	height        int
	showQuitModal bool
}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	victoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // yellow
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(ctx context.Context, session *game.Session, feed *journal.Memory, slot string) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = NamePlaceholder
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 64
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		ctx:          ctx,
		session:      session,
		feed:         feed,
		slot:         slot,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
		phase:        phaseStart,
	}
}

// styleFor picks a colour for a narrative entry.
func styleFor(entry string) lipgloss.Style {
	switch {
	case strings.HasPrefix(entry, "battle ended:"), strings.HasPrefix(entry, "Failed"):
		return errorStyle
	case strings.Contains(entry, " defeated "), strings.Contains(entry, "reaches level"):
		return victoryStyle
	default:
		return narratorStyle
	}
}

// drainFeed moves new journal entries into the story panel.
func (m *ConsoleUI) drainFeed() {
	for _, entry := range m.feed.Drain() {
		m.lines = append(m.lines, storyLine{text: entry, style: styleFor(entry)})
	}
}

func (m *ConsoleUI) addLine(text string, style lipgloss.Style) {
	m.lines = append(m.lines, storyLine{text: text, style: style})
}

// writeChatContent re-renders the story for the current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding
	if chatWidth < 10 {
		chatWidth = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("STORY ARENA") + "\n\n")
	content.WriteString("Fight monsters, collect trophies, level up.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth)) + "\n\n")

	for _, l := range m.lines {
		content.WriteString(l.style.Render(wordwrap.String(l.text, chatWidth)) + "\n")
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m ConsoleUI) sheet() string {
	var sb strings.Builder
	if err := m.session.Display(&sb); err != nil {
		return "No character yet.\n"
	}
	return sb.String()
}

func (m ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("CHARACTER") + "\n\n")

	content.WriteString("Session:\n")
	content.WriteString(m.session.ID.String()[:8] + "...\n\n")

	content.WriteString(wordwrap.String(m.sheet(), max(m.metaViewport.Width, 10)))
	content.WriteString("\n")

	content.WriteString("Commands:\n")
	content.WriteString("• 1: Fight\n")
	content.WriteString("• 2: Heal\n")
	content.WriteString("• 3: Save\n")
	content.WriteString("• 4: Exit\n")
	content.WriteString("• /copy: Copy sheet\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func (m *ConsoleUI) refresh() {
	m.drainFeed()
	m.writeChatContent()
	m.metaViewport.SetContent(m.writeMetadata())
}

func (m *ConsoleUI) layout() {
	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.phase == phaseStart {
		return m.updateStartModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}
			return m.handleInput(input)
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m ConsoleUI) handleInput(input string) (tea.Model, tea.Cmd) {
	if m.phase == phaseName {
		if err := m.session.NewGame(input); err != nil {
			m.addLine("Error: "+err.Error(), errorStyle)
		} else {
			m.phase = phasePlay
			m.textarea.Placeholder = PlayPlaceholder
		}
		m.refresh()
		return m, nil
	}

	m.addLine("> "+input, userStyle)

	switch strings.ToLower(input) {
	case "1", "fight":
		if _, err := m.session.Fight(m.ctx); err != nil {
			m.addLine("Error: "+err.Error(), errorStyle)
		}
	case "2", "heal":
		if err := m.session.Heal(); err != nil {
			m.addLine("Error: "+err.Error(), errorStyle)
		}
	case "3", "save":
		// The result is reported through the journal.
		_ = m.session.Save(m.ctx, m.slot)
	case "4", "exit", "quit":
		m.session.Exit()
		return m, tea.Quit
	case "/copy":
		if err := clipboard.WriteAll(m.sheet()); err != nil {
			m.addLine("Could not copy to clipboard: "+err.Error(), errorStyle)
		} else {
			m.addLine("Character sheet copied to clipboard.", promptStyle)
		}
	case "/help":
		m.addLine("Type 1 to fight, 2 to heal 20 HP, 3 to save, 4 to exit. /copy copies your character sheet.", promptStyle)
	default:
		m.addLine("Invalid choice.", errorStyle)
	}

	m.refresh()
	return m, nil
}

// updateStartModal handles the New Game / Load Game choice.
func (m ConsoleUI) updateStartModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selected > 0 {
				m.selected--
			}
		case tea.KeyDown:
			if m.selected < len(startOptions)-1 {
				m.selected++
			}
		case tea.KeyEnter:
			m.phase = phaseName
			if m.selected == 1 {
				if err := m.session.LoadGame(m.ctx, m.slot); err == nil {
					m.phase = phasePlay
					m.textarea.Placeholder = PlayPlaceholder
				} else {
					m.addLine("Starting a new game.", promptStyle)
				}
			}
			if m.width > 0 && m.height > 0 {
				m.layout()
				m.ready = true
			}
			m.refresh()
			m.textarea.Focus()
			return m, textarea.Blink
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			m.session.Exit()
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				m.session.Exit()
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.phase == phaseStart {
					return m, nil
				}
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Unsaved progress will be lost.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderStartModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Story Arena"))
	content.WriteString("\n\n")

	for i, option := range startOptions {
		if i == m.selected {
			content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", option)))
		} else {
			content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", option)))
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.phase == phaseStart {
		return m.renderStartModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", chatWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}
