package igdb

import (
	"context"
	"fmt"
	"strings"
)

// UpperBatchLimit is the most records IGDB returns per query.
const UpperBatchLimit = 100

// WherePlatform merges a platform filter into an Apicalypse base body.
// If the body already has a where clause the filter is AND-ed into it,
// otherwise a new clause is appended.
func WherePlatform(baseBody, platformID string) string {
	if strings.Contains(baseBody, "where ") {
		return strings.Replace(baseBody, "where ", fmt.Sprintf("where platforms = (%s) & ", platformID), 1)
	}
	return fmt.Sprintf("%s where platforms = (%s);", baseBody, platformID)
}

// WhereID constrains a base body to a set of record IDs.
func WhereID(baseBody string, ids ...string) string {
	return fmt.Sprintf("%s where id = (%s);", baseBody, strings.Join(ids, ","))
}

// QueryAll pages through an endpoint with limit/offset until `total` records
// are collected or a page comes back short (end of data).
func (c *Client) QueryAll(ctx context.Context, endpointURL, body string, total int) ([]Record, error) {
	if total <= UpperBatchLimit {
		return c.Query(ctx, endpointURL, fmt.Sprintf("%s limit %d;", body, total))
	}

	var all []Record
	offset := 0
	for offset < total {
		batch := min(UpperBatchLimit, total-offset)

		page, err := c.Query(ctx, endpointURL,
			fmt.Sprintf("%s limit %d; offset %d;", body, batch, offset))
		if err != nil {
			return nil, fmt.Errorf("fetching page at offset %d: %w", offset, err)
		}

		all = append(all, page...)
		offset += batch

		if len(page) < batch {
			break
		}
	}
	return all, nil
}
