package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
)

func newCatalogCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "catalog [variant]",
		Short: "List catalogs or print the questions of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listCatalogs(cmd.OutOrStdout())
			}
			catalog, err := questionnaire.Lookup(questionnaire.Variant(args[0]))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), catalog, true)
			}
			return printCatalog(cmd.OutOrStdout(), catalog)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")
	return cmd
}

func listCatalogs(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VARIANT\tQUESTIONS\tCATEGORIES")
	for _, c := range questionnaire.Catalogs() {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", c.Variant, c.Len(), len(c.CategoryKeys()))
	}
	return tw.Flush()
}

func printCatalog(w io.Writer, c *questionnaire.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tQUESTION")
	for _, q := range c.Questions {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", q.ID, q.Category, q.Text)
	}
	return tw.Flush()
}
