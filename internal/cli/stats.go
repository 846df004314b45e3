package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardsheet/pkg/layout"
)

// statsCommand prints page counts, area utilization and cut positions.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		f      docFlags
		cuts   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "stats [manifest.toml | dir | layout.json | images...]",
		Short: "Show page count, utilization and cut instructions",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.loadDocument(cmd.Context(), cmd, &f, args)
			if err != nil {
				return err
			}
			if asJSON {
				return writeStatsJSON(l.doc.Stats, l.doc.Front, cuts)
			}
			printLayoutStats(l.doc.Stats, l.doc.Front, cuts)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&cuts, "cuts", false, "list cut instructions for every card")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func printLayoutStats(st layout.Stats, front layout.Layout, cuts bool) {
	fmt.Println(StyleTitle.Render("Layout"))
	printKeyValue("Pages", StyleNumber.Render(fmt.Sprint(st.TotalPages)))
	printKeyValue("Cards", StyleNumber.Render(fmt.Sprint(st.TotalCards)))
	printKeyValue("Card area", fmt.Sprintf("%.0f mm²", st.TotalCardArea))
	printKeyValue("Page area", fmt.Sprintf("%.0f mm²", st.PageArea))
	printKeyValue("Usable area", fmt.Sprintf("%.0f mm²", st.UsableArea))
	printKeyValue("Utilization", fmt.Sprintf("%.2f%%", st.Utilization))

	if info, ok := layout.AlignmentInfo(front); ok {
		printKeyValue("Cards per row", fmt.Sprint(info.CardsPerRow))
		printDetail("%s", info.Message)
	}

	if !cuts {
		return
	}
	printNewline()
	instructions := layout.CutInstructions(front)
	rows := make([][]string, len(instructions))
	for i, in := range instructions {
		rows[i] = []string{
			fmt.Sprint(in.PageNumber), fmt.Sprint(in.CardNumber),
			fmt.Sprintf("%d/%d", in.Row+1, in.Col+1),
			mm(in.CutLines.Top), mm(in.CutLines.Right), mm(in.CutLines.Bottom), mm(in.CutLines.Left),
		}
	}
	printTable([]string{"Page", "Card", "Row/Col", "Top", "Right", "Bottom", "Left"}, rows)
}

func writeStatsJSON(st layout.Stats, front layout.Layout, cuts bool) error {
	out := struct {
		layout.Stats
		Alignment *layout.AlignmentSummary `json:"alignment,omitempty"`
		Cuts      []layout.CutInstruction  `json:"cuts,omitempty"`
	}{Stats: st}
	if info, ok := layout.AlignmentInfo(front); ok {
		out.Alignment = &info
	}
	if cuts {
		out.Cuts = layout.CutInstructions(front)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
