// Package ui prints pages, spaces, scan results and configuration to the
// console, and provides the progress spinner used while scanning.
package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/tonimelisma/confluence-client/pkg/confluence"
)

const (
	lineLength       = 80
	maxTitleLength   = 56
	spinnerType      = 14
	spinnerWidth     = 40
	spinnerThrottle  = 100 * time.Millisecond
	secretVisibleLen = 4
)

// Success prints a message to standard output.
func Success(msg string) {
	fmt.Println(msg)
}

// PrintError prints an error to standard error.
func PrintError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// DisplayPage prints the metadata of a loaded page. It only reads the
// snapshot and never triggers a request.
func DisplayPage(p *confluence.Page) {
	fmt.Println("Page:")
	fmt.Printf("  Title:    %s\n", p.Title())
	if id, ok := p.ID(); ok {
		fmt.Printf("  ID:       %s\n", id)
	}
	fmt.Printf("  Type:     %s\n", p.Type())
	if p.Status() != "" {
		fmt.Printf("  Status:   %s\n", p.Status())
	}
	if key := p.SpaceKey(); key != "" {
		fmt.Printf("  Space:    %s\n", key)
	}
	if v := p.Version(); v > 0 {
		fmt.Printf("  Version:  %d\n", v)
	}
	if ancestors := p.Ancestors(); len(ancestors) > 0 {
		fmt.Printf("  Parent:   %s %s\n", ancestors[0].ID, ancestors[0].Title)
	}
	if labels := snapshotLabels(p); len(labels) > 0 {
		fmt.Printf("  Labels:   %s\n", strings.Join(labels, ", "))
	}
	if u, ok := p.URL(); ok {
		fmt.Printf("  URL:      %s\n", u)
	}
}

func snapshotLabels(p *confluence.Page) []string {
	md := p.Snapshot().Metadata
	if md == nil || md.Labels == nil {
		return nil
	}
	names := make([]string, 0, len(md.Labels.Results))
	for _, l := range md.Labels.Results {
		names = append(names, l.DisplayName())
	}
	return names
}

// DisplayBody prints a page body as is.
func DisplayBody(body string) {
	fmt.Println(body)
}

// DisplaySpace prints the metadata of a loaded space.
func DisplaySpace(s *confluence.Space) {
	fmt.Println("Space:")
	fmt.Printf("  Key:         %s\n", s.Key())
	fmt.Printf("  Name:        %s\n", s.Name())
	if id, ok := s.ID(); ok {
		fmt.Printf("  ID:          %s\n", id)
	}
	if s.Type() != "" {
		fmt.Printf("  Type:        %s\n", s.Type())
	}
	if s.Status() != "" {
		fmt.Printf("  Status:      %s\n", s.Status())
	}
	if desc, ok := s.Description(); ok && desc != "" {
		fmt.Printf("  Description: %s\n", desc)
	}
	if home, ok := s.HomepageID(); ok {
		fmt.Printf("  Homepage:    %s\n", home)
	}
	if u, ok := s.URL(); ok {
		fmt.Printf("  URL:         %s\n", u)
	}
}

// DisplayScanResults prints a table of scanned content.
func DisplayScanResults(results []confluence.PageData, spaceKey string) {
	if len(results) == 0 {
		fmt.Printf("No content found in space %s.\n", spaceKey)
		return
	}

	fmt.Printf("Content in space %s:\n", spaceKey)
	fmt.Printf("%-12s %-10s %s\n", "ID", "Status", "Title")
	fmt.Println(strings.Repeat("-", lineLength))
	for _, r := range results {
		id := ""
		if r.ID != nil {
			id = r.ID.String()
		}
		fmt.Printf("%-12s %-10s %s\n", id, r.Status, truncate(r.Title, maxTitleLength))
	}
	fmt.Printf("\n%d item(s)\n", len(results))
}

// DisplayLabels prints the labels of a page.
func DisplayLabels(labels []string, pageID confluence.ContentID) {
	if len(labels) == 0 {
		fmt.Printf("Page %s has no labels.\n", pageID)
		return
	}
	fmt.Printf("Labels on page %s:\n", pageID)
	for _, l := range labels {
		fmt.Printf("  %s\n", l)
	}
}

// DisplayConfigSection prints a config section with secrets masked.
func DisplayConfigSection(name string, values map[string]string) {
	fmt.Printf("[%s]\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := values[k]
		if k == "token" {
			v = maskSecret(v)
		}
		fmt.Printf("  %s = %s\n", k, v)
	}
}

// NewScanSpinner returns a spinner counting scanned items on stderr.
func NewScanSpinner(description string) *progressbar.ProgressBar {
	if description == "" {
		description = "Scanning..."
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(spinnerWidth),
		progressbar.OptionThrottle(spinnerThrottle),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(spinnerType),
		progressbar.OptionClearOnFinish(),
	)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func maskSecret(s string) string {
	if len(s) <= secretVisibleLen {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-secretVisibleLen) + s[len(s)-secretVisibleLen:]
}
