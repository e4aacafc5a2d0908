package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hollowoak/cback/pkg/scheduler"
)

var (
	tuiTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tuiSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	tuiRemoteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	tuiDimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tuiDetailStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// planModel is the interactive plan preview: a scrollable item list with a
// detail pane for the selected item's hooks and peer resolution.
type planModel struct {
	plan     *scheduler.Plan
	cursor   int
	viewport viewport.Model
	ready    bool
}

func newPlanModel(plan *scheduler.Plan) planModel {
	return planModel{plan: plan}
}

func (m planModel) Init() tea.Cmd {
	return nil
}

func (m planModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.plan.Items)-1 {
				m.cursor++
			}
		}
		m.syncViewport()
	case tea.WindowSizeMsg:
		// Reserve space for the header, the detail pane and the help line.
		height := msg.Height - 12
		if height < 3 {
			height = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.syncViewport()
	}
	return m, nil
}

func (m *planModel) syncViewport() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for i, item := range m.plan.Items {
		line := m.itemLine(i, item)
		if i == m.cursor {
			line = tuiSelectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	m.viewport.SetContent(b.String())

	// Keep the cursor visible.
	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m planModel) itemLine(i int, item scheduler.ActionItem) string {
	where := "local"
	if item.IsRemote() {
		where = tuiRemoteStyle.Render("peer:" + item.RemotePeer.Name)
	}
	return fmt.Sprintf("%3d  %-12s %s", i+1, item.Name, where)
}

func (m planModel) View() string {
	if !m.ready {
		return "Loading plan..."
	}
	header := tuiTitleStyle.Render(fmt.Sprintf("Plan %s (%d items)", m.plan.ID, len(m.plan.Items)))
	help := tuiDimStyle.Render("↑/↓ move · q quit")
	return header + "\n" + m.viewport.View() + "\n" + m.detailView() + "\n" + help
}

func (m planModel) detailView() string {
	if len(m.plan.Items) == 0 {
		return tuiDetailStyle.Render("Plan is empty.")
	}
	item := m.plan.Items[m.cursor]

	var lines []string
	lines = append(lines, fmt.Sprintf("action: %s  index: %d  handler: %s", item.Name, item.Index, item.Handler))
	for _, hook := range item.PreHooks {
		lines = append(lines, "pre:  "+hook.Command)
	}
	for _, hook := range item.PostHooks {
		lines = append(lines, "post: "+hook.Command)
	}
	if peer := item.RemotePeer; peer != nil {
		lines = append(lines, fmt.Sprintf("peer: %s  remote user: %s  local user: %s",
			peer.Name, orUnset(peer.RemoteUser), orUnset(peer.LocalUser)))
		lines = append(lines, fmt.Sprintf("rsh: %s  cback: %s",
			orUnset(peer.RshCommand), orUnset(peer.CbackCommand)))
	}
	return tuiDetailStyle.Render(strings.Join(lines, "\n"))
}

func orUnset(value string) string {
	if value == "" {
		return "<unset>"
	}
	return value
}

// runPlanTUI launches the interactive plan preview.
func runPlanTUI(plan *scheduler.Plan) error {
	p := tea.NewProgram(newPlanModel(plan), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
