package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/tassa-yoniso-manasi-karoto/go-pangu"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the settings file and the effective settings",
		Args:  cobra.NoArgs,
		RunE:  runConfig,
	}
	cmd.Flags().Bool("init", false, "write the default settings if the file does not exist")
	cmd.Flags().Bool("force", false, "with --init, overwrite an existing file")
	return cmd
}

func runConfig(cmd *cobra.Command, _ []string) error {
	initFile, err := cmd.Flags().GetBool("init")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	path, err := settingsPath(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if initFile {
		_, statErr := os.Stat(path)
		switch {
		case statErr == nil && !force:
			return fmt.Errorf("config: %s already exists (use --force to overwrite)", path)
		case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
			return fmt.Errorf("config: %w", statErr)
		}
		if err := pangu.SaveSettings(path, pangu.DefaultSettings()); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", color.Green.Sprint("wrote"), path)
	}

	settings, err := pangu.LoadSettings(path)
	if err != nil {
		return err
	}
	if _, err := settings.Config(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", color.Yellow.Sprint("warning:"), err)
	}

	fmt.Fprintf(out, "# %s\n", path)
	return toml.NewEncoder(out).Encode(settings)
}
