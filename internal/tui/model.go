// Package tui renders views in the terminal and turns key presses into
// requests to the core.
package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/i474232898/weather-companion/internal/app"
	"github.com/i474232898/weather-companion/internal/weather"
)

// Controller is the subset of the core handle the terminal drives.
type Controller interface {
	View() app.View
	SearchLocations(query string) error
	SelectLocation(p weather.LocationPoint) error
	Refresh() error
	ToggleUnits() error
	EditLocation() error
	CancelSearch() error
}

// Model is the bubbletea model. It holds no application state of its own
// beyond the search entry text and the result cursor.
type Model struct {
	ctl    Controller
	view   app.View
	input  string
	cursor int
	width  int
	notice string
}

func New(ctl Controller) *Model {
	return &Model{ctl: ctl}
}

func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		return viewMsg(m.ctl.View())
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		m.apply(app.View(msg))
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) apply(v app.View) {
	if !v.SearchVisible {
		m.input = ""
	}
	if v.Results == nil || m.cursor >= len(v.Results) {
		m.cursor = 0
	}
	m.view = v
}

func (m *Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if k.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	m.notice = ""

	switch {
	case m.view.ResultsVisible:
		return m.handleResultsKey(k)
	case m.view.SearchVisible:
		return m.handleSearchKey(k)
	}

	switch k.String() {
	case "q":
		return m, tea.Quit
	case "/", "e":
		m.report(m.ctl.EditLocation())
	case "r":
		m.report(m.ctl.Refresh())
	case "u":
		m.report(m.ctl.ToggleUnits())
	}
	return m, nil
}

func (m *Model) handleSearchKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.Type {
	case tea.KeyEsc:
		m.input = ""
		m.report(m.ctl.CancelSearch())
	case tea.KeyEnter:
		err := m.ctl.SearchLocations(m.input)
		if errors.Is(err, app.ErrEmptyQuery) {
			m.notice = "type a place name first"
			return m, nil
		}
		m.report(err)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(m.input) > 0 {
			r := []rune(m.input)
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(k.Runes)
	}
	return m, nil
}

func (m *Model) handleResultsKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.view.Results)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(m.view.Results) {
			m.report(m.ctl.SelectLocation(m.view.Results[m.cursor]))
		}
	case "esc":
		m.report(m.ctl.CancelSearch())
	case "/", "e":
		m.report(m.ctl.EditLocation())
	}
	return m, nil
}

func (m *Model) report(err error) {
	if err != nil {
		m.notice = "error: " + err.Error()
	}
}
