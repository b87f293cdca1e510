package livechat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"livetakip/internal/core/thread"
	perr "livetakip/internal/platform/errors"
	ptime "livetakip/internal/platform/time"
)

const chatsPath = "/api/v1/chats"

// ListChats walks every page of the window, newest first, and returns all containers.
// There is no page cap; the walk ends when the platform runs out of data.
// A failed page discards everything gathered so far
func (c *Client) ListChats(ctx context.Context, w thread.Window) ([]thread.RawContainer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var all []thread.RawContainer
	for page := 1; ; page++ {
		if page > 1 {
			if err := c.sleep(ctx, c.opts.PageDelay); err != nil {
				return nil, err
			}
		}

		res, err := c.fetchPage(ctx, w, page)
		if err != nil {
			return nil, err
		}
		items := res.items()
		if len(items) == 0 {
			break
		}
		all = append(all, items...)

		evt := c.log.Info().Int("page", page).Int("count", len(items)).Int("total", len(all))
		if res.Pagination != nil {
			evt = evt.Int("total_pages", res.Pagination.TotalPages)
		}
		evt.Msg("livechat page fetched")

		if res.Pagination != nil && res.Pagination.TotalPages > 0 {
			if page >= res.Pagination.TotalPages {
				break
			}
			continue
		}
		if len(items) < c.opts.PageSize {
			break
		}
	}
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, w thread.Window, page int) (listResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.opts.PageSize))
	q.Set("start_date", ptime.UpstreamStamp(w.Start))
	q.Set("end_date", ptime.UpstreamStamp(w.End))
	q.Set("sort_by", "created_at")
	q.Set("sort_order", "desc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+chatsPath+"?"+q.Encode(), nil)
	if err != nil {
		return listResponse{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "livechat: build request for page %d", page)
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return listResponse{}, perr.Wrapf(err, perr.CodeOf(err), "livechat: page %d", page)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return listResponse{}, perr.Wrapf(
			&StatusError{Status: resp.StatusCode, Body: string(body)},
			perr.ErrorCodeUpstream,
			"livechat: page %d answered %d", page, resp.StatusCode,
		)
	}

	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return listResponse{}, perr.Wrapf(err, perr.ErrorCodeUpstream, "livechat: decode page %d", page)
	}
	return out, nil
}
