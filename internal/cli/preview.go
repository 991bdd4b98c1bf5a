package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cropforge/cropforge/pkg/dataset"
	"github.com/cropforge/cropforge/pkg/imageio"
	"github.com/cropforge/cropforge/pkg/preview"
)

// previewCols is the character width of the terminal layout grid.
const previewCols = 64

// previewCommand creates the preview command for inspecting layout sets.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		pngPath string
		index   int
	)
	opts := preview.Options{}

	cmd := &cobra.Command{
		Use:   "preview [layout-file]",
		Short: "Browse a layout set in the terminal or raster one layout to PNG",
		Long: `Browse a layout set in the terminal or raster one layout to PNG.

Without flags an interactive browser opens: each layout is drawn as a
character grid with one color per element class. With --png the layout
selected by --index is rastered as a schematic image instead, using the
same class colors at canvas resolution.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(args[0], pngPath, index, opts)
		},
	}

	cmd.Flags().StringVar(&pngPath, "png", "", "write a schematic PNG instead of opening the browser")
	cmd.Flags().IntVar(&index, "index", 0, "layout index to raster with --png")
	cmd.Flags().StringVar(&opts.Background, "background", "", "schematic background hex color")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 1.0, "schematic scale relative to canvas pixels")
	cmd.Flags().BoolVar(&opts.NoLabels, "no-labels", false, "skip class-ID labels in the schematic")

	return cmd
}

// runPreview loads a layout set and either writes a schematic PNG or
// starts the interactive browser.
func (c *CLI) runPreview(path, pngPath string, index int, opts preview.Options) error {
	set, err := dataset.ReadLayoutSetFile(path)
	if err != nil {
		return fmt.Errorf("load layout set %s: %w", path, err)
	}

	if pngPath != "" {
		img, err := preview.Schematic(&set, index, opts)
		if err != nil {
			return err
		}
		data, err := imageio.Encode(img, dataset.FormatPNG, 100)
		if err != nil {
			return fmt.Errorf("encode schematic: %w", err)
		}
		if err := os.WriteFile(pngPath, data, 0644); err != nil {
			return fmt.Errorf("write schematic: %w", err)
		}
		printSuccess("Schematic written")
		printFile(pngPath)
		return nil
	}

	if _, err := tea.NewProgram(newPreviewModel(set)).Run(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}

// previewModel is the bubbletea model behind the layout browser.
type previewModel struct {
	set   dataset.LayoutSet
	index int
}

func newPreviewModel(set dataset.LayoutSet) previewModel {
	return previewModel{set: set}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.index > 0 {
				m.index--
			}
		case "right", "l":
			if m.index < len(m.set.Layouts)-1 {
				m.index++
			}
		case "g":
			m.index = 0
		case "G":
			m.index = len(m.set.Layouts) - 1
		}
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	canvas := m.set.Canvas
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Layout %d/%d", m.index+1, len(m.set.Layouts))))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s (%dx%d)", canvas.Name, canvas.Width, canvas.Height)))
	b.WriteString("\n\n")

	layout := m.set.Layouts[m.index]
	b.WriteString(renderLayoutGrid(layout, canvas))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d placements", len(layout))))
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("←/→ navigate · g/G first/last · q quit"))
	b.WriteString("\n")

	return b.String()
}

// renderLayoutGrid draws one layout as a character raster with one color
// per element class. Terminal cells are roughly twice as tall as wide, so
// the row count is halved to keep the canvas aspect.
func renderLayoutGrid(layout dataset.Layout, canvas dataset.CanvasSpec) string {
	cols := previewCols
	rows := int(float64(cols) * float64(canvas.Height) / float64(canvas.Width) * 0.5)
	if rows < 1 {
		rows = 1
	}

	cells := make([]int, cols*rows)
	for i := range cells {
		cells[i] = -1
	}
	for _, p := range layout {
		x0 := p.X * cols / canvas.Width
		x1 := (p.X + p.Width) * cols / canvas.Width
		y0 := p.Y * rows / canvas.Height
		y1 := (p.Y + p.Height) * rows / canvas.Height
		// Tiny placements still occupy one cell
		if x1 <= x0 {
			x1 = x0 + 1
		}
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for y := y0; y < y1 && y < rows; y++ {
			for x := x0; x < x1 && x < cols; x++ {
				cells[y*cols+x] = p.ClassID
			}
		}
	}

	empty := StyleDim.Render("·")
	styles := make(map[int]lipgloss.Style)

	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			id := cells[y*cols+x]
			if id < 0 {
				b.WriteString(empty)
				continue
			}
			st, ok := styles[id]
			if !ok {
				st = lipgloss.NewStyle().Foreground(lipgloss.Color(preview.ClassColor(id).Hex()))
				styles[id] = st
			}
			b.WriteString(st.Render("█"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
