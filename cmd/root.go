// Package cmd defines the confluence-client command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/confluence-client/internal/app"
	"github.com/tonimelisma/confluence-client/pkg/confluence"
)

var rootCmd = &cobra.Command{
	Use:   "confluence-client",
	Short: "A CLI client for Confluence pages and spaces",
	Long: `confluence-client reads and edits Confluence content from the command line.

Server connections are read from ~/.confluence-client/config.yaml (or the file
given with --config / CONFLUENCE_CONFIG_PATH). Each section of that file is a
server; pick one with --section.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Log requests and responses to stderr")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.confluence-client/config.yaml)")
	rootCmd.PersistentFlags().String("section", "default", "Config section naming the server to use")
}

// newApp is app.NewApp with the command name in the error.
func newApp(cmd *cobra.Command) (*app.App, error) {
	a, err := app.NewApp(cmd)
	if err != nil {
		return nil, fmt.Errorf("initializing app for '%s': %w", cmd.CommandPath(), err)
	}
	return a, nil
}

// checkResource turns a failed last response into an error.
func checkResource(r confluence.Resource, action string) error {
	if r.HasErrors() {
		code, _ := r.StatusCode()
		return fmt.Errorf("%s: %s (status %d)", action, r.ErrorMessage(), code)
	}
	return nil
}

// parseContentID parses a page id argument.
func parseContentID(arg string) (confluence.ContentID, error) {
	id, err := confluence.ParseContentID(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid page id %q: %w", arg, err)
	}
	return id, nil
}

// readBody returns the --body flag, or the contents of --body-file.
func readBody(cmd *cobra.Command) (string, bool, error) {
	if path, _ := cmd.Flags().GetString("body-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", false, fmt.Errorf("reading body file: %w", err)
		}
		return string(data), true, nil
	}
	if cmd.Flags().Changed("body") {
		body, _ := cmd.Flags().GetString("body")
		return body, true, nil
	}
	return "", false, nil
}

func addBodyFlags(cmd *cobra.Command) {
	cmd.Flags().String("body", "", "Page body in storage format")
	cmd.Flags().String("body-file", "", "Read the page body from a file")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")
}
