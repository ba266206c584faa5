package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gookit/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tassa-yoniso-manasi-karoto/go-pangu"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pangu",
		Short: "Normalize spacing between CJK and Latin text",
		Long: `pangu inserts a space between CJK characters and Latin letters, digits,
code spans and some half-width symbols, collapsing surrounding whitespace,
while leaving code, URLs and markdown markers untouched.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.AddCommand(newFmtCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newConfigCmd())

	rootCmd.PersistentFlags().Bool("verbose", false, "log engine decisions to stderr")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "settings file (default: XDG config dir)")
	return rootCmd
}

// main builds the command tree and runs it, exiting with status 1 on error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	if verbose {
		pangu.Logger = pangu.NewConsoleLogger(cmd.ErrOrStderr(), zerolog.DebugLevel)
	}

	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "auto":
	case "on":
		color.Enable = true
		color.ForceOpenColor()
	case "off":
		color.Enable = false
	default:
		return fmt.Errorf("unsupported color mode %q", mode)
	}
	return nil
}

// loadConfig resolves defaults, then the settings file, then flags that were
// set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (pangu.Config, error) {
	path, err := settingsPath(cmd)
	if err != nil {
		return pangu.Config{}, err
	}
	settings, err := pangu.LoadSettings(path)
	if err != nil {
		return pangu.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Lookup("indent") != nil && flags.Changed("indent") {
		indent, err := flags.GetInt("indent")
		if err != nil {
			return pangu.Config{}, err
		}
		settings.TabWidth = pangu.TabWidth(strconv.Itoa(indent))
	}
	if flags.Lookup("embedded") != nil && flags.Changed("embedded") {
		embedded, err := flags.GetBool("embedded")
		if err != nil {
			return pangu.Config{}, err
		}
		settings.EmbeddedLanguageFormatting = embedded
	}
	return settings.Config()
}

func settingsPath(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return "", err
	}
	if path != "" {
		return path, nil
	}
	return pangu.SettingsPath()
}
