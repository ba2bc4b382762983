package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/confluence-client/pkg/confluence"
)

// AddScanFlags adds the content scan flags to a command.
func AddScanFlags(cmd *cobra.Command) {
	cmd.Flags().String("status", "any", "Content status to scan for (current, trashed, draft, any)")
	cmd.Flags().StringSlice("expand", nil, "Expansions to include with every result")
	cmd.Flags().Int("limit", confluence.DefaultScanLimit, "Number of results per request")
}

// ParseScanFlags reads the scan flags into ScanOptions.
func ParseScanFlags(cmd *cobra.Command) (confluence.ScanOptions, error) {
	status, err := cmd.Flags().GetString("status")
	if err != nil {
		return confluence.ScanOptions{}, fmt.Errorf("error parsing status flag: %w", err)
	}

	expand, err := cmd.Flags().GetStringSlice("expand")
	if err != nil {
		return confluence.ScanOptions{}, fmt.Errorf("error parsing expand flag: %w", err)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return confluence.ScanOptions{}, fmt.Errorf("error parsing limit flag: %w", err)
	}
	if limit < 1 {
		return confluence.ScanOptions{}, fmt.Errorf("limit must be positive, got %d", limit)
	}

	return confluence.ScanOptions{Status: status, Expand: expand, Limit: limit}, nil
}
