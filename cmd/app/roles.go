package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"StockAdvisor/internal/services/analyst"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the configured analyst roles and weights",
	Args:  cobra.NoArgs,
	RunE:  runRoles,
}

func runRoles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	info, err := analyst.Describe(cfg.Analysis.Roles, cfg.Analysis.WeightOf)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDISPLAY NAME\tWEIGHT")
	for _, r := range info {
		fmt.Fprintf(w, "%s\t%s\t%.2f\n", r.Name, r.DisplayName, r.Weight)
	}
	return w.Flush()
}
