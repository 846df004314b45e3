package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardsheet/pkg/guides"
)

// guidesCommand prints the cut-guide report for the print shop.
func (c *CLI) guidesCommand() *cobra.Command {
	var (
		f      docFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "guides [manifest.toml | dir | layout.json | images...]",
		Short: "Print the cut-guide report",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.loadDocument(cmd.Context(), cmd, &f, args)
			if err != nil {
				return err
			}
			report := guides.NewReport(l.doc.Front, l.doc.Settings)
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printGuideReport(report)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func printGuideReport(r guides.Report) {
	fmt.Println(StyleTitle.Render("Cut guides"))
	printKeyValue("Page size", r.Settings.PageSize)
	printKeyValue("Margin", mm(r.Settings.Margin))
	printKeyValue("Spacing", mm(r.Settings.Spacing))
	printKeyValue("Pages", fmt.Sprint(r.TotalPages))
	printKeyValue("Cards", fmt.Sprint(r.TotalCards))
	printNewline()

	for _, p := range r.Pages {
		fmt.Println(StyleValue.Render(fmt.Sprintf("Page %d", p.PageNumber)) + StyleDim.Render(fmt.Sprintf(" (%d cards)", p.CardCount)))
		rows := make([][]string, len(p.Cards))
		for i, card := range p.Cards {
			e := card.CutLines
			rows[i] = []string{
				fmt.Sprint(card.CardNumber), card.Position, card.Size,
				fmt.Sprintf("%d / %d / %d / %d", e.Top, e.Right, e.Bottom, e.Left),
			}
		}
		printTable([]string{"Card", "Position", "Size", "Cut T/R/B/L (mm)"}, rows)
	}

	printNewline()
	for _, line := range r.Instructions {
		printDetail("%s", line)
	}
}
