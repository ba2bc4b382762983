package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tonimelisma/confluence-client/internal/app"
	"github.com/tonimelisma/confluence-client/internal/config"
	"github.com/tonimelisma/confluence-client/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage server connections",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a server section to the config file",
	Long: `Writes the given server settings into the section chosen with --section,
creating the config file when it does not exist. Existing keys of the section
that are not given are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitLogic(afero.NewOsFs(), cmd)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the config file with tokens masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowLogic(afero.NewOsFs(), cmd)
	},
}

func configInitLogic(fs afero.Fs, cmd *cobra.Command) error {
	path, err := app.ConfigPath(cmd)
	if err != nil {
		return err
	}
	section, _ := cmd.Flags().GetString("section")
	if section == "" {
		section = config.DefaultSection
	}

	cfg, err := config.LoadOrCreate(fs, path)
	if err != nil {
		return err
	}

	for _, key := range []string{"base-url", "token", "username"} {
		if cmd.Flags().Changed(key) {
			v, _ := cmd.Flags().GetString(key)
			cfg.Set(section, flagKey(key), v)
		}
	}
	if cmd.Flags().Changed("cloud") {
		cloud, _ := cmd.Flags().GetBool("cloud")
		cfg.Set(section, "cloud", strconv.FormatBool(cloud))
	}

	if _, err := cfg.Server(section); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	ui.Success(fmt.Sprintf("Saved section %q to %s.", section, cfg.Path()))
	return nil
}

func configShowLogic(fs afero.Fs, cmd *cobra.Command) error {
	path, err := app.ConfigPath(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(fs, path)
	if err != nil {
		return err
	}

	sections := cfg.Sections()
	if cmd.Flags().Changed("section") {
		name, _ := cmd.Flags().GetString("section")
		sections = []string{name}
	}
	for _, name := range sections {
		values, err := cfg.Section(name)
		if err != nil {
			return err
		}
		ui.DisplayConfigSection(name, values)
	}
	return nil
}

// flagKey maps a flag name to its config key.
func flagKey(flag string) string {
	if flag == "base-url" {
		return "base_url"
	}
	return flag
}

func init() {
	configInitCmd.Flags().String("base-url", "", "Server URL, e.g. https://wiki.example.com")
	configInitCmd.Flags().String("token", "", "Personal access token (Data Center) or API token (Cloud)")
	configInitCmd.Flags().String("username", "", "Account email, needed for Cloud")
	configInitCmd.Flags().Bool("cloud", false, "Treat the server as Confluence Cloud")

	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
