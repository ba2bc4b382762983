package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/confluence-client/internal/app"
	"github.com/tonimelisma/confluence-client/internal/ui"
	"github.com/tonimelisma/confluence-client/pkg/confluence"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Read and edit pages",
}

var pageGetCmd = &cobra.Command{
	Use:   "get <page-id>",
	Short: "Show page metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return pageGetLogic(a, cmd, args)
	},
}

var pageBodyCmd = &cobra.Command{
	Use:   "body <page-id>",
	Short: "Print the page body",
	Long:  `Prints the page body. --format selects the representation: storage, view, export_view or anonymous_export_view.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return pageBodyLogic(a, cmd, args)
	},
}

var pageCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return pageCreateLogic(a, cmd)
	},
}

var pageUpdateCmd = &cobra.Command{
	Use:   "update <page-id>",
	Short: "Change the title, body or parent of a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return pageUpdateLogic(a, cmd, args)
	},
}

var pageDeleteCmd = &cobra.Command{
	Use:   "delete <page-id>",
	Short: "Move a page to the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return pageDeleteLogic(a, cmd, args)
	},
}

var pageParentCmd = &cobra.Command{
	Use:   "parent <page-id>",
	Short: "Show the parent of a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return pageParentLogic(a, cmd, args)
	},
}

var pageLabelsCmd = &cobra.Command{
	Use:   "labels <page-id>",
	Short: "List page labels",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return pageLabelsLogic(a, cmd, args)
	},
}

var pageLabelCmd = &cobra.Command{
	Use:   "label",
	Short: "Add or remove page labels",
}

var pageLabelAddCmd = &cobra.Command{
	Use:   "add <page-id> <label>...",
	Short: "Add labels to a page",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return pageLabelAddLogic(a, cmd, args)
	},
}

var pageLabelRmCmd = &cobra.Command{
	Use:   "rm <page-id> [label]...",
	Short: "Remove labels from a page",
	Long:  `Removes the given labels, or every label with --all. Removal continues past failures and reports them together.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return pageLabelRmLogic(a, cmd, args)
	},
}

func loadPage(a *app.App, cmd *cobra.Command, arg string) (*confluence.Page, error) {
	id, err := parseContentID(arg)
	if err != nil {
		return nil, err
	}
	page, err := a.SDK.GetPage(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := checkResource(page, fmt.Sprintf("getting page %s", id)); err != nil {
		return nil, err
	}
	return page, nil
}

func pageGetLogic(a *app.App, cmd *cobra.Command, args []string) error {
	page, err := loadPage(a, cmd, args[0])
	if err != nil {
		return err
	}
	ui.DisplayPage(page)
	return nil
}

func pageBodyLogic(a *app.App, cmd *cobra.Command, args []string) error {
	page, err := loadPage(a, cmd, args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	body, ok, err := page.BodyRepresentation(cmd.Context(), format)
	if err != nil {
		return fmt.Errorf("loading %s body: %w", format, err)
	}
	if err := checkResource(page, fmt.Sprintf("loading %s body", format)); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("page %s has no %q body", args[0], format)
	}
	ui.DisplayBody(body)
	return nil
}

func pageCreateLogic(a *app.App, cmd *cobra.Command) error {
	space, _ := cmd.Flags().GetString("space")
	title, _ := cmd.Flags().GetString("title")
	parent, _ := cmd.Flags().GetString("parent")

	page := a.SDK.NewPage()
	page.SetSpaceKey(space)
	page.SetTitle(title)

	body, _, err := readBody(cmd)
	if err != nil {
		return err
	}
	page.SetBody(body)

	if parent != "" {
		if err := page.SetParentString(parent); err != nil {
			return err
		}
	}

	if err := page.Save(cmd.Context()); err != nil {
		return fmt.Errorf("creating page: %w", err)
	}
	if err := checkResource(page, "creating page"); err != nil {
		return err
	}

	id, _ := page.ID()
	ui.Success(fmt.Sprintf("Created page %s %q in space %s.", id, page.Title(), page.SpaceKey()))
	return nil
}

func pageUpdateLogic(a *app.App, cmd *cobra.Command, args []string) error {
	page, err := loadPage(a, cmd, args[0])
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("title") {
		title, _ := cmd.Flags().GetString("title")
		page.SetTitle(title)
	}
	body, ok, err := readBody(cmd)
	if err != nil {
		return err
	}
	if ok {
		page.SetBody(body)
	}
	if parent, _ := cmd.Flags().GetString("parent"); parent != "" {
		if err := page.SetParentString(parent); err != nil {
			return err
		}
	}

	if err := page.Save(cmd.Context()); err != nil {
		return fmt.Errorf("updating page: %w", err)
	}
	if err := checkResource(page, "updating page"); err != nil {
		return err
	}

	ui.Success(fmt.Sprintf("Updated page %s to version %d.", args[0], page.Version()))
	return nil
}

func pageDeleteLogic(a *app.App, cmd *cobra.Command, args []string) error {
	id, err := parseContentID(args[0])
	if err != nil {
		return err
	}

	page := a.SDK.NewPage()
	page.SetID(id)
	if err := page.Delete(cmd.Context()); err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	if err := checkResource(page, "deleting page"); err != nil {
		return err
	}

	ui.Success(fmt.Sprintf("Deleted page %s.", id))
	return nil
}

func pageParentLogic(a *app.App, cmd *cobra.Command, args []string) error {
	page, err := loadPage(a, cmd, args[0])
	if err != nil {
		return err
	}

	parent, err := page.Parent(cmd.Context())
	if err != nil {
		return err
	}
	if parent == nil {
		ui.Success(fmt.Sprintf("Page %s is a top level page.", args[0]))
		return nil
	}
	if err := checkResource(parent, "loading parent"); err != nil {
		return err
	}
	ui.DisplayPage(parent)
	return nil
}

func pageLabelsLogic(a *app.App, cmd *cobra.Command, args []string) error {
	page, err := loadPage(a, cmd, args[0])
	if err != nil {
		return err
	}

	labels, _, err := page.Labels(cmd.Context())
	if err != nil {
		return err
	}
	id, _ := page.ID()
	ui.DisplayLabels(labels, id)
	return nil
}

func pageLabelAddLogic(a *app.App, cmd *cobra.Command, args []string) error {
	id, err := parseContentID(args[0])
	if err != nil {
		return err
	}

	page := a.SDK.NewPage()
	page.SetID(id)
	for _, name := range args[1:] {
		resp, err := page.AddLabel(cmd.Context(), name)
		if err != nil {
			return err
		}
		if resp.HasErrors {
			return fmt.Errorf("adding label %q: %s", name, resp.ErrorMessage)
		}
	}

	ui.Success(fmt.Sprintf("Added %d label(s) to page %s.", len(args)-1, id))
	return nil
}

func pageLabelRmLogic(a *app.App, cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	if all == (len(args) > 1) {
		return fmt.Errorf("give either label names or --all")
	}

	if all {
		page, err := loadPage(a, cmd, args[0])
		if err != nil {
			return err
		}
		if err := page.RemoveAllLabels(cmd.Context()); err != nil {
			return fmt.Errorf("removing labels: %w", err)
		}
		ui.Success(fmt.Sprintf("Removed all labels from page %s.", args[0]))
		return nil
	}

	id, err := parseContentID(args[0])
	if err != nil {
		return err
	}
	page := a.SDK.NewPage()
	page.SetID(id)
	for _, name := range args[1:] {
		resp, err := page.RemoveLabel(cmd.Context(), name)
		if err != nil {
			return err
		}
		if resp.HasErrors {
			return fmt.Errorf("removing label %q: %s", name, resp.ErrorMessage)
		}
	}

	ui.Success(fmt.Sprintf("Removed %d label(s) from page %s.", len(args)-1, id))
	return nil
}

func init() {
	pageBodyCmd.Flags().String("format", confluence.BodyStorage, "Body representation")

	pageCreateCmd.Flags().String("space", "", "Key of the space to create the page in")
	pageCreateCmd.Flags().String("title", "", "Page title")
	pageCreateCmd.Flags().String("parent", "", "Id of the parent page")
	addBodyFlags(pageCreateCmd)
	pageCreateCmd.MarkFlagRequired("space")
	pageCreateCmd.MarkFlagRequired("title")

	pageUpdateCmd.Flags().String("title", "", "New title")
	pageUpdateCmd.Flags().String("parent", "", "Id of the new parent page")
	addBodyFlags(pageUpdateCmd)

	pageLabelRmCmd.Flags().Bool("all", false, "Remove every label")

	pageLabelCmd.AddCommand(pageLabelAddCmd, pageLabelRmCmd)
	pageCmd.AddCommand(pageGetCmd, pageBodyCmd, pageCreateCmd, pageUpdateCmd, pageDeleteCmd,
		pageParentCmd, pageLabelsCmd, pageLabelCmd)
	rootCmd.AddCommand(pageCmd)
}
