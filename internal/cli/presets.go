package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cropforge/cropforge/pkg/dataset"
	"github.com/cropforge/cropforge/pkg/placement"
)

// presetsCommand creates the presets command listing built-in values.
func (c *CLI) presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List canvas, background, density and format presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printPresets()
			return nil
		},
	}
}

func printPresets() {
	fmt.Println(StyleTitle.Render("Canvases"))
	for _, name := range dataset.CanvasPresetNames {
		spec := dataset.CanvasPresets[name]
		printKeyValue(name, fmt.Sprintf("%dx%d", spec.Width, spec.Height))
	}
	printDetail("or any WIDTHxHEIGHT, e.g. 800x600")
	printNewline()

	fmt.Println(StyleTitle.Render("Backgrounds"))
	printKeyValue("presets", strings.Join(dataset.BackgroundPresets, ", "))
	printDetail("or any hex color")
	printNewline()

	fmt.Println(StyleTitle.Render("Densities"))
	for _, name := range placement.DensityNames {
		printKeyValue(name, fmt.Sprintf("%d layouts", placement.DensityTargets[name]))
	}
	printNewline()

	fmt.Println(StyleTitle.Render("Formats"))
	printKeyValue(dataset.FormatJPG, "lossy, quality flag applies")
	printKeyValue(dataset.FormatPNG, "lossless")
	printKeyValue(dataset.FormatWebP, "lossy, quality flag applies")
}
