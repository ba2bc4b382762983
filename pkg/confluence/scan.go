package confluence

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"
)

// ScanOptions controls a content scan.
type ScanOptions struct {
	// Status filters content by status. Defaults to "any".
	Status string
	// Expand lists expansions applied to every result.
	Expand []string
	// Limit is the page size. Zero means the server default of 25.
	Limit int
}

func (o ScanOptions) params(spaceKey, cursor string) url.Values {
	status := o.Status
	if status == "" {
		status = "any"
	}

	params := url.Values{}
	params.Set("spaceKey", spaceKey)
	params.Set("status", status)
	if len(o.Expand) > 0 {
		params.Set("expand", strings.Join(o.Expand, ","))
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	if o.Limit > 0 && o.Limit != DefaultScanLimit {
		params.Set("limit", strconv.Itoa(o.Limit))
	}
	return params
}

// ScanPages walks the space's content with the cursor based scan endpoint,
// yielding one ScanPage per request. Breaking out of the loop stops the
// scan. Each successful page becomes the space's last Response; a failed
// page yields an error wrapping ErrScanFailed and ends the sequence.
//
// The scan endpoint is only available on Confluence Data Center.
//
// Example:
//
//	for page, err := range space.ScanPages(ctx, confluence.ScanOptions{Status: "trashed"}) {
//		if err != nil {
//			return err
//		}
//		for _, item := range page.Results {
//			fmt.Println(item.Title)
//		}
//	}
func (s *Space) ScanPages(ctx context.Context, opts ScanOptions) iter.Seq2[*ScanPage, error] {
	return func(yield func(*ScanPage, error) bool) {
		key := s.Key()
		if key == "" {
			yield(nil, fmt.Errorf("scan space: %w", ErrIdentifierNotSet))
			return
		}

		cursor := ""
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			s.logger.Debugf("scanning space %s cursor=%q", key, cursor)
			resp := s.caller.Get(ctx, s.endpoint(OpScan), opts.params(key, cursor))
			if resp.HasErrors {
				yield(nil, &ResponseError{StatusCode: resp.StatusCode, Message: resp.ErrorMessage, Kind: ErrScanFailed})
				return
			}
			s.last = resp

			var page ScanPage
			if err := resp.Decode(&page); err != nil {
				yield(nil, err)
				return
			}
			if !yield(&page, nil) {
				return
			}

			if page.NextCursor == "" || page.NextCursor == cursor {
				return
			}
			cursor = page.NextCursor
		}
	}
}

// Scan returns every result of a content scan in server order. When a later
// page fails, the results of the pages before it are returned together with
// the error; a failing first page returns nil results.
func (s *Space) Scan(ctx context.Context, opts ScanOptions) ([]PageData, error) {
	var results []PageData
	for page, err := range s.ScanPages(ctx, opts) {
		if err != nil {
			return results, err
		}
		if results == nil {
			results = []PageData{}
		}
		results = append(results, page.Results...)
	}
	if results == nil {
		results = []PageData{}
	}
	return results, nil
}
