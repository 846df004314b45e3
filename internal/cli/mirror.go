package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardsheet/pkg/align"
	"github.com/matzehuels/cardsheet/pkg/mirror"
)

// mirrorCommand shows the back layout derived from the front.
func (c *CLI) mirrorCommand() *cobra.Command {
	var (
		f     docFlags
		marks bool
	)

	cmd := &cobra.Command{
		Use:   "mirror [manifest.toml | dir | layout.json | images...]",
		Short: "Show the mirrored back layout and front/back alignment",
		Long: `Show the mirrored back layout and front/back alignment.

Back pages mirror each front row horizontally so that, printed double-sided
and flipped on the long edge, every back lands behind its card. A back image
is required, from the manifest or --back.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.loadDocument(cmd.Context(), cmd, &f, args)
			if err != nil {
				return err
			}
			if l.doc.BackLayout == nil {
				return fmt.Errorf("no back image: set [settings] back in the manifest or pass --back")
			}
			printMirror(l, marks)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&marks, "marks", false, "list per-card alignment marks")

	return cmd
}

func printMirror(l *loaded, marks bool) {
	doc := l.doc
	back := *doc.BackLayout
	report := mirror.NewReport(doc.Front, back)

	fmt.Println(StyleTitle.Render("Mirror"))
	printKeyValue("Front pages", fmt.Sprint(report.FrontPages))
	printKeyValue("Back pages", fmt.Sprint(report.BackPages))
	printKeyValue("Cards", fmt.Sprint(report.TotalCards))
	printKeyValue("Cards per page", fmt.Sprint(report.CardsPerPage))
	if d := report.CardDimensions; d != nil {
		printKeyValue("Card size", fmt.Sprintf("%s × %s", mm(d.Width), mm(d.Height)))
	}

	m := mirror.MirroredMargins(doc.Settings)
	printKeyValue("Front margins", fmt.Sprintf("L %s  R %s", mm(m.Left), mm(m.Right)))
	printKeyValue("Back margins", fmt.Sprintf("L %s  R %s", mm(m.BackLeft), mm(m.BackRight)))
	printNewline()

	rows := make([][]string, 0, back.NumCards())
	for p, page := range back.Pages {
		for i, card := range page {
			front := doc.Front.Pages[p][i]
			rows = append(rows, []string{
				fmt.Sprint(p + 1), fmt.Sprint(i + 1),
				mm(front.X), mm(card.X), mm(card.Y),
			})
		}
	}
	printTable([]string{"Page", "Card", "Front X", "Back X", "Y"}, rows)

	for _, issue := range l.mixed {
		printWarning("%s", issue)
	}

	if doc.Alignment != nil && doc.Alignment.IsAligned {
		printSuccess("%s", report.Alignment)
	} else if doc.Alignment != nil {
		for _, msg := range doc.Alignment.Errors {
			printError("%s", msg)
		}
	}

	if marks {
		printNewline()
		printMarks(align.Marks(doc.Front, back))
	}
}

func printMarks(marks []align.Mark) {
	rows := make([][]string, len(marks))
	for i, m := range marks {
		status := StyleSuccess.Render(iconSuccess)
		if !m.IsAligned {
			status = StyleWarning.Render(iconWarning)
		}
		rows[i] = []string{
			fmt.Sprint(m.PageIndex + 1), fmt.Sprint(m.CardIndex + 1),
			fmt.Sprintf("%s,%s", mm(m.Front.X), mm(m.Front.Y)),
			fmt.Sprintf("%s,%s", mm(m.Back.X), mm(m.Back.Y)),
			status,
		}
	}
	printTable([]string{"Page", "Card", "Front", "Back", ""}, rows)
}
