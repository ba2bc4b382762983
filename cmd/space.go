package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/confluence-client/internal/app"
	"github.com/tonimelisma/confluence-client/internal/ui"
	"github.com/tonimelisma/confluence-client/pkg/confluence"
)

var spaceCmd = &cobra.Command{
	Use:   "space",
	Short: "Work with spaces and the pages in them",
}

var spaceGetCmd = &cobra.Command{
	Use:   "get <space-key>",
	Short: "Show space details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return spaceGetLogic(a, cmd, args)
	},
}

var spaceCreateCmd = &cobra.Command{
	Use:   "create <space-key> <name>",
	Short: "Create a global space",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return spaceCreateLogic(a, cmd, args)
	},
}

var spacePageCmd = &cobra.Command{
	Use:   "page <space-key> <page-id>",
	Short: "Show a page, failing when it belongs to another space",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return spacePageLogic(a, cmd, args)
	},
}

var spaceNewPageCmd = &cobra.Command{
	Use:   "new-page <space-key> <title>",
	Short: "Create a page in a space",
	Long:  `Creates a page in the space. Without --parent the page is created under the space homepage.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return spaceNewPageLogic(a, cmd, args)
	},
}

var spaceScanCmd = &cobra.Command{
	Use:   "scan <space-key>",
	Short: "List all content in a space",
	Long:  `Walks every page of the space with the cursor based scan endpoint. Data Center only.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return spaceScanLogic(a, cmd, args)
	},
}

var spaceRestoreCmd = &cobra.Command{
	Use:   "restore <space-key> <page-id>",
	Short: "Restore a trashed page",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return spaceRestoreLogic(a, cmd, args)
	},
}

func loadSpace(a *app.App, cmd *cobra.Command, key string) (*confluence.Space, error) {
	space, err := a.SDK.GetSpace(cmd.Context(), key)
	if err != nil {
		return nil, err
	}
	if err := checkResource(space, fmt.Sprintf("getting space %s", key)); err != nil {
		return nil, err
	}
	return space, nil
}

func spaceGetLogic(a *app.App, cmd *cobra.Command, args []string) error {
	space, err := loadSpace(a, cmd, args[0])
	if err != nil {
		return err
	}
	ui.DisplaySpace(space)
	return nil
}

func spaceCreateLogic(a *app.App, cmd *cobra.Command, args []string) error {
	description, _ := cmd.Flags().GetString("description")

	space, err := a.SDK.CreateSpace(cmd.Context(), args[1], args[0], description)
	if err != nil {
		return fmt.Errorf("creating space: %w", err)
	}
	if err := checkResource(space, "creating space"); err != nil {
		return err
	}

	ui.Success(fmt.Sprintf("Created space %s (%s).", space.Key(), space.Name()))
	return nil
}

func spacePageLogic(a *app.App, cmd *cobra.Command, args []string) error {
	id, err := parseContentID(args[1])
	if err != nil {
		return err
	}
	space, err := loadSpace(a, cmd, args[0])
	if err != nil {
		return err
	}

	page, err := space.GetPage(cmd.Context(), id)
	if err != nil {
		return err
	}
	if err := checkResource(page, fmt.Sprintf("getting page %s", id)); err != nil {
		return err
	}
	ui.DisplayPage(page)
	return nil
}

func spaceNewPageLogic(a *app.App, cmd *cobra.Command, args []string) error {
	var parentID confluence.ContentID
	if parent, _ := cmd.Flags().GetString("parent"); parent != "" {
		id, err := parseContentID(parent)
		if err != nil {
			return err
		}
		parentID = id
	}
	body, _, err := readBody(cmd)
	if err != nil {
		return err
	}

	space, err := loadSpace(a, cmd, args[0])
	if err != nil {
		return err
	}
	page, err := space.NewPage(args[1], body, parentID)
	if err != nil {
		return err
	}
	if err := page.Save(cmd.Context()); err != nil {
		return fmt.Errorf("creating page: %w", err)
	}
	if err := checkResource(page, "creating page"); err != nil {
		return err
	}

	id, _ := page.ID()
	ui.Success(fmt.Sprintf("Created page %s %q in space %s.", id, page.Title(), space.Key()))
	return nil
}

func spaceScanLogic(a *app.App, cmd *cobra.Command, args []string) error {
	opts, err := ui.ParseScanFlags(cmd)
	if err != nil {
		return err
	}
	space, err := loadSpace(a, cmd, args[0])
	if err != nil {
		return err
	}

	spinner := ui.NewScanSpinner(fmt.Sprintf("Scanning %s", space.Key()))
	results := []confluence.PageData{}
	for page, err := range space.ScanPages(cmd.Context(), opts) {
		if err != nil {
			spinner.Finish()
			return fmt.Errorf("scanning space %s: %w", space.Key(), err)
		}
		results = append(results, page.Results...)
		spinner.Add(len(page.Results))
	}
	spinner.Finish()

	a.Logger.Debugf("scan of %s returned %d items", space.Key(), len(results))
	ui.DisplayScanResults(results, space.Key())
	return nil
}

func spaceRestoreLogic(a *app.App, cmd *cobra.Command, args []string) error {
	id, err := parseContentID(args[1])
	if err != nil {
		return err
	}
	version, _ := cmd.Flags().GetInt("version")
	if version < 1 {
		return fmt.Errorf("--version must be at least 1")
	}
	var parentID confluence.ContentID
	if parent, _ := cmd.Flags().GetString("parent"); parent != "" {
		if parentID, err = parseContentID(parent); err != nil {
			return err
		}
	}

	space, err := loadSpace(a, cmd, args[0])
	if err != nil {
		return err
	}
	page, err := space.RestorePage(cmd.Context(), id, version, parentID)
	if err != nil {
		return err
	}
	if err := checkResource(page, fmt.Sprintf("restoring page %s", id)); err != nil {
		return err
	}

	ui.Success(fmt.Sprintf("Restored page %s.", id))
	return nil
}

func init() {
	spaceCreateCmd.Flags().String("description", "", "Plain text space description")

	spaceNewPageCmd.Flags().String("parent", "", "Id of the parent page (default is the space homepage)")
	addBodyFlags(spaceNewPageCmd)

	ui.AddScanFlags(spaceScanCmd)

	spaceRestoreCmd.Flags().Int("version", 0, "Current version number of the trashed page")
	spaceRestoreCmd.Flags().String("parent", "", "Move the restored page under this parent")
	spaceRestoreCmd.MarkFlagRequired("version")

	spaceCmd.AddCommand(spaceGetCmd, spaceCreateCmd, spacePageCmd, spaceNewPageCmd, spaceScanCmd, spaceRestoreCmd)
	rootCmd.AddCommand(spaceCmd)
}
