package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"dcat-launcher/internal/target"
)

// Represents the 'dcat-launcher list' command.
type ListCmd struct{}

// Executes the list command.
func (c *ListCmd) Run() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tIMAGE\tDESCRIPTION")
	for _, t := range target.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, t.Image, t.Description)
	}
	return w.Flush()
}
