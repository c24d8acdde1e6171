package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/rauzy/pkg/perm"
	"github.com/matzehuels/rauzy/pkg/rauzy"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// DiagramModel - Interactive diagram browser
// =============================================================================

// DiagramModel is the bubbletea model for browsing a Rauzy diagram. The
// cursor moves through the nodes in discovery order; t and b follow the
// top and bottom edges of the selected node, backspace walks back.
type DiagramModel struct {
	Diagram   *rauzy.Diagram
	Keys      []string
	Cursor    int
	Height    int
	Offset    int
	History   []int // cursor positions before each followed edge
	Component map[string]int
	Selected  string // key of the node chosen with enter
}

// NewDiagramModel creates a browser positioned on the first seed.
func NewDiagramModel(d *rauzy.Diagram) DiagramModel {
	m := DiagramModel{
		Diagram:   d,
		Keys:      d.Keys(),
		Height:    15,
		Component: make(map[string]int),
	}
	for i, comp := range d.Components() {
		for _, k := range comp {
			m.Component[k] = i
		}
	}
	return m
}

func (m DiagramModel) Init() tea.Cmd {
	return nil
}

func (m DiagramModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.moveTo(m.Cursor - 1)
			}
		case "down", "j":
			if m.Cursor < len(m.Keys)-1 {
				m.moveTo(m.Cursor + 1)
			}
		case "t":
			m.follow(perm.Top)
		case "b":
			m.follow(perm.Bottom)
		case "backspace":
			if n := len(m.History); n > 0 {
				m.moveTo(m.History[n-1])
				m.History = m.History[:n-1]
			}
		case "enter":
			if len(m.Keys) > 0 {
				m.Selected = m.Keys[m.Cursor]
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
		m.moveTo(m.Cursor)
	}
	return m, nil
}

// follow moves the cursor along the edge won by side. Edges to reducible
// permutations are not in the diagram, so a node can lack one.
func (m *DiagramModel) follow(side perm.Side) {
	if len(m.Keys) == 0 {
		return
	}
	for _, e := range m.Diagram.Successors(m.Keys[m.Cursor]) {
		if e.Label.Winner != side {
			continue
		}
		n, ok := m.Diagram.Node(e.To)
		if !ok {
			return
		}
		m.History = append(m.History, m.Cursor)
		m.moveTo(n.Index)
		return
	}
}

func (m *DiagramModel) moveTo(i int) {
	m.Cursor = i
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m DiagramModel) View() string {
	var b strings.Builder

	st := m.Diagram.Stats()
	b.WriteString(StyleTitle.Render("Rauzy Diagram"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d nodes  %d edges  %d components",
		st.Nodes, st.Edges, len(m.Diagram.Components()))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  t/b follow edge  ⌫ back  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Keys))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n, _ := m.Diagram.Node(m.Keys[i])
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprint(n.Index),
			n.Perm.String(),
			fmt.Sprint(n.Depth),
			fmt.Sprint(m.Component[n.Key]),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Permutation", "Depth", "SCC").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 1 || col >= 3 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Keys))))

	return b.String()
}

// detail describes the edges into and out of the selected node.
func (m DiagramModel) detail() string {
	if len(m.Keys) == 0 {
		return listDimStyle.Render("  empty diagram")
	}
	key := m.Keys[m.Cursor]
	var b strings.Builder
	for _, side := range []perm.Side{perm.Top, perm.Bottom} {
		target := listDimStyle.Render("reducible")
		for _, e := range m.Diagram.Successors(key) {
			if e.Label.Winner == side {
				n, _ := m.Diagram.Node(e.To)
				target = fmt.Sprintf("%s %s %s", StyleHighlight.Render(e.Label.String()), iconArrow, n.Perm)
			}
		}
		fmt.Fprintf(&b, "  %-6s %s\n", side, target)
	}
	fmt.Fprintf(&b, "  %-6s %s\n", "in", listDimStyle.Render(fmt.Sprintf("%d edges", len(m.Diagram.Predecessors(key)))))
	return b.String()
}
