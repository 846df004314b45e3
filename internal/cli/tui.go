package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardsheet/pkg/geometry"
	"github.com/matzehuels/cardsheet/pkg/layout"
	"github.com/matzehuels/cardsheet/pkg/render/sink"
)

// Preview styles
var (
	previewSheetStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	previewCardStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	previewBackStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	previewDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// Terminal cells are roughly twice as tall as wide.
const cellAspect = 2.0

// previewCommand opens the interactive page browser.
func (c *CLI) previewCommand() *cobra.Command {
	var f docFlags

	cmd := &cobra.Command{
		Use:   "preview [manifest.toml | dir | layout.json | images...]",
		Short: "Browse pages in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.loadDocument(cmd.Context(), cmd, &f, args)
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewPreviewModel(l.doc), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	f.register(cmd)
	return cmd
}

// =============================================================================
// PreviewModel - Interactive page browser
// =============================================================================

// PreviewModel is the bubbletea model for browsing front and back pages.
type PreviewModel struct {
	Doc    sink.Document
	Page   int
	Back   bool // showing the back side
	Width  int  // terminal size
	Height int
}

// NewPreviewModel creates a preview of doc starting on the first front page.
func NewPreviewModel(doc sink.Document) PreviewModel {
	return PreviewModel{Doc: doc, Width: 80, Height: 24}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "pgup":
			if m.Page > 0 {
				m.Page--
			}
		case "right", "l", "pgdown", " ":
			if m.Page < m.side().NumPages()-1 {
				m.Page++
			}
		case "home", "g":
			m.Page = 0
		case "end", "G":
			m.Page = max(m.side().NumPages()-1, 0)
		case "tab", "b":
			if m.Doc.BackLayout != nil {
				m.Back = !m.Back
			}
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}
	return m, nil
}

func (m PreviewModel) side() layout.Layout {
	if m.Back {
		return m.Doc.Backs()
	}
	return m.Doc.Front
}

func (m PreviewModel) View() string {
	var b strings.Builder

	l := m.side()
	sideName := "Front"
	if m.Back {
		sideName = "Back"
	}

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s page %d/%d", sideName, m.Page+1, max(l.NumPages(), 1))))
	b.WriteString(previewDimStyle.Render(fmt.Sprintf("  %s %s × %s",
		m.Doc.Settings.PageSize, mm(m.Doc.Page.Width), mm(m.Doc.Page.Height))))
	b.WriteString("\n")
	help := "←/→ page  q quit"
	if m.Doc.BackLayout != nil {
		help = "←/→ page  tab front/back  q quit"
	}
	b.WriteString(previewDimStyle.Render(help))
	b.WriteString("\n\n")

	var page layout.Page
	if m.Page < l.NumPages() {
		page = l.Pages[m.Page]
	}
	cols, rows := sheetSize(m.Doc.Page, m.Width-4, m.Height-8)
	style := previewCardStyle
	if m.Back {
		style = previewBackStyle
	}
	b.WriteString(previewSheetStyle.Render(style.Render(drawSheet(page, m.Doc.Page, cols, rows))))
	b.WriteString("\n")
	b.WriteString(previewDimStyle.Render(fmt.Sprintf("  %d cards on this page · %d total · %.2f%% utilization",
		len(page), m.Doc.Front.NumCards(), m.Doc.Stats.Utilization)))

	return b.String()
}

// sheetSize fits the page into at most maxCols × maxRows cells keeping its
// aspect ratio.
func sheetSize(dims geometry.PageDimensions, maxCols, maxRows int) (cols, rows int) {
	maxCols = max(maxCols, 10)
	maxRows = max(maxRows, 5)
	if dims.Width <= 0 || dims.Height <= 0 {
		return maxCols, maxRows
	}
	cols = maxCols
	rows = int(float64(cols) * dims.Height / dims.Width / cellAspect)
	if rows > maxRows {
		rows = maxRows
		cols = int(float64(rows) * dims.Width / dims.Height * cellAspect)
	}
	return max(cols, 1), max(rows, 1)
}

// drawSheet draws each card of page as a box on a cols × rows grid,
// labelled with its 1-based index.
func drawSheet(page layout.Page, dims geometry.PageDimensions, cols, rows int) string {
	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", cols))
	}
	if dims.Width <= 0 || dims.Height <= 0 {
		return joinGrid(grid)
	}
	sx := float64(cols) / dims.Width
	sy := float64(rows) / dims.Height

	for i, c := range page {
		x0 := clamp(int(c.X*sx), 0, cols-1)
		y0 := clamp(int(c.Y*sy), 0, rows-1)
		x1 := clamp(int(c.Right()*sx)-1, x0, cols-1)
		y1 := clamp(int(c.Bottom()*sy)-1, y0, rows-1)

		for x := x0; x <= x1; x++ {
			grid[y0][x] = '─'
			grid[y1][x] = '─'
		}
		for y := y0; y <= y1; y++ {
			grid[y][x0] = '│'
			grid[y][x1] = '│'
		}
		grid[y0][x0], grid[y0][x1] = '┌', '┐'
		grid[y1][x0], grid[y1][x1] = '└', '┘'

		label := []rune(fmt.Sprint(i + 1))
		ly := (y0 + y1) / 2
		lx := (x0+x1)/2 - len(label)/2
		if x1-x0 > len(label) && ly > y0 && ly < y1 {
			for j, ch := range label {
				grid[ly][lx+j] = ch
			}
		}
	}
	return joinGrid(grid)
}

func joinGrid(grid [][]rune) string {
	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
