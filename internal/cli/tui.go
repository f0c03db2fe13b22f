package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/photobook/pkg/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	previewStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// Preview size in terminal cells. Cells are roughly twice as tall as they
// are wide, so a 3:4 page becomes 24x16.
const (
	previewCols = 24
	previewRows = 16
)

// =============================================================================
// LayoutListModel - Interactive template selection
// =============================================================================

// LayoutListModel is the bubbletea model for interactive template
// selection. The highlighted template is previewed next to the list.
type LayoutListModel struct {
	Templates []layout.Template
	Cursor    int
	Selected  *layout.Template
	Height    int
	Offset    int
}

// NewLayoutListModel creates a new template list model.
func NewLayoutListModel(templates []layout.Template) LayoutListModel {
	return LayoutListModel{Templates: templates, Height: 15}
}

func (m LayoutListModel) Init() tea.Cmd {
	return nil
}

func (m LayoutListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Templates)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Templates) == 0 {
				return m, tea.Quit
			}
			t := m.Templates[m.Cursor]
			m.Selected = &t
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m LayoutListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layout"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Templates))
	var list strings.Builder
	for i := m.Offset; i < end; i++ {
		t := m.Templates[i]
		line := fmt.Sprintf("%s %-16s %s", t.Icon, t.Key, listDimStyle.Render(plural(t.Len(), "zone")))
		if i == m.Cursor {
			list.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			list.WriteString(listNormalStyle.Render("  " + line))
		}
		list.WriteString("\n")
	}

	var preview string
	if m.Cursor < len(m.Templates) {
		t := m.Templates[m.Cursor]
		preview = previewStyle.Render(StyleHighlight.Render(t.Name) + "\n" + zonePreview(t, previewCols, previewRows))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list.String(), "  ", preview))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Templates))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// zonePreview draws the zones of t on a cols x rows character grid. A
// cell shows the one-based number of the last zone covering it, or '·'.
func zonePreview(t layout.Template, cols, rows int) string {
	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat("·", cols))
	}
	for i, z := range t.Zones {
		mark := rune('1' + i%9)
		x0 := int(math.Round(z.X / 100 * float64(cols)))
		x1 := int(math.Round((z.X + z.Width) / 100 * float64(cols)))
		y0 := int(math.Round(z.Y / 100 * float64(rows)))
		y1 := int(math.Round((z.Y + z.Height) / 100 * float64(rows)))
		for r := max(y0, 0); r < min(y1, rows); r++ {
			for c := max(x0, 0); c < min(x1, cols); c++ {
				grid[r][c] = mark
			}
		}
	}
	lines := make([]string, rows)
	for r, row := range grid {
		lines[r] = string(row)
	}
	return strings.Join(lines, "\n")
}

// layoutsTable renders the catalog as a table.
func layoutsTable(templates []layout.Template) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		overlap := ""
		if len(t.Overlaps()) > 0 {
			overlap = "yes"
		}
		rows = append(rows, []string{t.Icon, t.Key, t.Name, fmt.Sprint(t.Len()), overlap})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Key", "Name", "Zones", "Overlap").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 3 || col == 4:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
