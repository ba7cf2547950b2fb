package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/hidden-marble/internal/config"
)

// MenuChoice is what the player picked in the start menu.
type MenuChoice int

const (
	MenuChoiceNone MenuChoice = iota
	MenuChoiceContinue
	MenuChoiceNew
	MenuChoiceHistory
	MenuChoiceQuit
)

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Choice MenuChoice
	Preset config.Preset // Set for MenuChoiceNew
	Width  int
	Height int
}

type menuItem struct {
	label  string
	choice MenuChoice
	preset config.Preset
}

// MenuModel is the start menu: continue the saved maze, start a new one at
// some difficulty, or look at the history.
type MenuModel struct {
	items     []menuItem
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	result    MenuResult
	done      bool
}

// NewMenuModel creates the start menu. The continue entry is shown only
// when hasSave is true.
func NewMenuModel(hasSave bool, width, height int) MenuModel {
	var items []menuItem
	if hasSave {
		items = append(items, menuItem{label: "Continue", choice: MenuChoiceContinue})
	}
	items = append(items,
		menuItem{label: "New maze (easy)", choice: MenuChoiceNew, preset: config.PresetEasy},
		menuItem{label: "New maze (normal)", choice: MenuChoiceNew, preset: config.PresetNormal},
		menuItem{label: "New maze (hard)", choice: MenuChoiceNew, preset: config.PresetHard},
		menuItem{label: "History", choice: MenuChoiceHistory},
		menuItem{label: "Quit", choice: MenuChoiceQuit},
	)
	return MenuModel{
		items:     items,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.result.Choice = MenuChoiceQuit
		m.done = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		item := m.items[m.cursor]
		m.result.Choice = item.choice
		m.result.Preset = item.preset
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("H I D D E N   M A R B L E", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Tilt the box. Find the way out.", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.label, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Q: Quit", m.width))
	return b.String()
}

// Result returns the choice, with MenuChoiceNone while the menu is open.
func (m MenuModel) Result() MenuResult {
	r := m.result
	r.Width, r.Height = m.width, m.height
	return r
}

func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// RunMenu shows the start menu and returns the choice.
func RunMenu(hasSave bool, width, height int) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(hasSave, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Choice: MenuChoiceQuit}, nil
	}
	return m.Result(), nil
}
