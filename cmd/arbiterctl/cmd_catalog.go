package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Arbiter/internal/catalog"
)

func newCriteriaCommand(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "criteria",
		Short: "List the criteria of the active catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := root.loadCatalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if output == "json" {
				return writeJSON(out, c.All())
			}
			rows := make([][]string, 0, c.Len())
			for _, cr := range c.All() {
				rows = append(rows, []string{cr.ID, cr.DisplayName(), string(cr.Direction)})
			}
			writeTable(out, []string{"ID", "NAME", "DIRECTION"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or json")
	return cmd
}

func newMethodsCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "methods",
		Short: "List the ranking methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if output == "json" {
				return writeJSON(out, catalog.Methods())
			}
			for _, m := range catalog.Methods() {
				fmt.Fprintf(out, "%s\t%s\n  %s\n", m.ID, m.Name, m.Description)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or json")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
