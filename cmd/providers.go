package cmd

import (
	"fmt"
	"strings"

	"ontoai/internal/ai"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(providersCmd)
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported AI providers and their models",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-10s %-26s %-8s %-10s %s\n", "PROVIDER", "DEFAULT MODEL", "CONTEXT", "NEEDS", "DESCRIPTION")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, p := range ai.Profiles() {
			needs := "api key"
			if p.NeedsModelPath {
				needs = "model file"
			}
			model := p.DefaultModel
			if model == "" {
				model = "(model file)"
			}
			fmt.Fprintf(out, "%-10s %-26s %-8s %-10s %s\n", p.Name, model, formatTokens(p.ContextLimit), needs, p.Description)
			if len(p.Models) > 1 {
				fmt.Fprintf(out, "%-10s also: %s\n", "", strings.Join(p.Models[1:], ", "))
			}
		}
	},
}
