package upstream

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// FetchAllPages drains the named collection page by page. Pages are fetched
// strictly sequentially: the API exposes no total count, so each page's
// length is the only signal for whether another page exists.
//
// A page shorter than pageSize, or a response without a usable source array
// on any page after the first, means end of data. A failure on the first
// page, or any mid-loop request failure, surfaces as an error rather than a
// silently truncated result.
func (c *Client) FetchAllPages(ctx context.Context, colName string, pageSize int) ([]any, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("pageSize must be positive, got %d", pageSize)
	}

	var all []any
	for page := 1; ; page++ {
		resp, err := c.RetrieveCollection(ctx, colName, page, pageSize, "")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d of %s: %w", page, colName, err)
		}

		if resp.Source == nil {
			if page == 1 {
				return []any{}, nil
			}
			break
		}

		all = append(all, resp.Source...)

		if len(resp.Source) < pageSize {
			break
		}
	}

	log.Debug().Str("collection", colName).Int("records", len(all)).Msg("Drained collection")
	if all == nil {
		all = []any{}
	}
	return all, nil
}
