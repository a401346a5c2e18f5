package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ontoai/internal/ai"
	"ontoai/internal/store"

	"github.com/spf13/cobra"
)

var (
	provAPIKey    string
	provModel     string
	provModelPath string
	provNoSelect  bool
)

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsThemeCmd)
	settingsCmd.AddCommand(settingsPriceCmd)
	settingsCmd.AddCommand(settingsProviderCmd)
	settingsCmd.AddCommand(settingsTestCmd)

	f := settingsProviderCmd.Flags()
	f.StringVar(&provAPIKey, "api-key", "", "API key")
	f.StringVar(&provModel, "model", "", "model name (default: provider default)")
	f.StringVar(&provModelPath, "model-path", "", "local model file (GPT4All)")
	f.BoolVar(&provNoSelect, "no-select", false, "store credentials without making this the active provider")
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change preferences and AI provider credentials",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		theme, err := st.Theme()
		if err != nil {
			return err
		}
		price, err := st.SessionPrice()
		if err != nil {
			return err
		}
		active, err := st.AIProvider()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Database:      %s\n", cfg.DBPath)
		fmt.Fprintf(out, "Theme:         %s\n", theme)
		fmt.Fprintf(out, "Session price: %s\n", formatMoney(price))
		fmt.Fprintf(out, "AI provider:   %s\n\n", active)

		fmt.Fprintf(out, "%-2s %-10s %-26s %s\n", "", "PROVIDER", "MODEL", "CREDENTIALS")
		fmt.Fprintln(out, strings.Repeat("─", 64))
		for _, p := range ai.Profiles() {
			pc, ok, err := st.ProviderConfig(p.Name)
			if err != nil {
				return err
			}
			mark := ""
			if p.Name == active {
				mark = "*"
			}
			model := pc.Model
			if model == "" {
				model = p.DefaultModel
			}
			fmt.Fprintf(out, "%-2s %-10s %-26s %s\n", mark, p.Name, orDash(model), credentialLabel(pc, ok))
		}
		return nil
	},
}

var settingsThemeCmd = &cobra.Command{
	Use:       "theme <light|dark>",
	Short:     "Set the display theme",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(store.ThemeLight), string(store.ThemeDark)},
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SetTheme(store.Theme(strings.ToLower(args[0]))); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", strings.ToLower(args[0]))
		return nil
	},
}

var settingsPriceCmd = &cobra.Command{
	Use:   "price <amount>",
	Short: "Set the default price per session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := strconv.ParseFloat(strings.ReplaceAll(args[0], ",", "."), 64)
		if err != nil {
			return fmt.Errorf("invalid price %q", args[0])
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SetSessionPrice(price); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session price set to %s\n", formatMoney(price))
		return nil
	},
}

var settingsProviderCmd = &cobra.Command{
	Use:   "provider <name>",
	Short: "Configure an AI provider and make it active",
	Long: `provider stores credentials for one AI provider and selects it.

  ontoai settings provider OpenAI --api-key sk-... --model gpt-4o
  ontoai settings provider GroqCloud --api-key gsk_...
  ontoai settings provider GPT4All --model-path ~/models/orca-mini.gguf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, ok := lookupProfile(args[0])
		if !ok {
			return fmt.Errorf("unknown provider %q (see 'ontoai providers')", args[0])
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		pc, _, err := st.ProviderConfig(profile.Name)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("api-key") {
			pc.APIKey = strings.TrimSpace(provAPIKey)
		}
		if cmd.Flags().Changed("model") {
			pc.Model = strings.TrimSpace(provModel)
		}
		if cmd.Flags().Changed("model-path") {
			pc.ModelPath = strings.TrimSpace(provModelPath)
		}
		if profile.NeedsModelPath && pc.ModelPath == "" {
			return fmt.Errorf("%s needs --model-path", profile.Name)
		}
		if profile.NeedsAPIKey && pc.APIKey == "" && profile.Name != ai.Mixtral {
			return fmt.Errorf("%s needs --api-key", profile.Name)
		}

		if err := st.SetProviderConfig(profile.Name, pc); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Saved %s credentials\n", profile.Name)
		if !provNoSelect {
			if err := st.SetAIProvider(profile.Name); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s is now the active provider\n", profile.Name)
		}
		return nil
	},
}

var settingsTestCmd = &cobra.Command{
	Use:   "test [provider]",
	Short: "Check that a provider answers with the stored credentials",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			p, ok := lookupProfile(args[0])
			if !ok {
				return fmt.Errorf("unknown provider %q", args[0])
			}
			name = p.Name
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		provider, err := providerFor(st, name)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		msg, err := provider.TestConnection(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

func lookupProfile(name string) (ai.Profile, bool) {
	for _, p := range ai.Profiles() {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return ai.Profile{}, false
}

func credentialLabel(pc store.ProviderConfig, ok bool) string {
	switch {
	case !ok:
		return "not configured"
	case pc.ModelPath != "":
		return pc.ModelPath
	case pc.APIKey != "":
		return "api key " + maskKey(pc.APIKey)
	}
	return "not configured"
}

// maskKey keeps only the last four characters visible.
func maskKey(k string) string {
	if len(k) <= 4 {
		return strings.Repeat("*", len(k))
	}
	return strings.Repeat("*", 4) + k[len(k)-4:]
}
