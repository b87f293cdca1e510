package livechat

import "livetakip/internal/core/thread"

// Pagination is the optional paging block of a list response
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// listResponse is one page of GET /api/v1/chats; older deployments name the list "chats"
type listResponse struct {
	Data       []thread.RawContainer `json:"data"`
	Chats      []thread.RawContainer `json:"chats"`
	Pagination *Pagination           `json:"pagination"`
}

func (r listResponse) items() []thread.RawContainer {
	if len(r.Data) > 0 {
		return r.Data
	}
	return r.Chats
}
