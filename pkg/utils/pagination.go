package utils

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageParams holds offset pagination request parameters
type PageParams struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

// PageMeta holds pagination response metadata
type PageMeta struct {
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	Count   int  `json:"count"`
	HasMore bool `json:"hasMore"`
}

// GetPageParams normalizes offset and limit.
// Default: offset=0, limit=DefaultLimit; limit is capped at MaxLimit.
func GetPageParams(offset, limit int) PageParams {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PageParams{
		Offset: offset,
		Limit:  limit,
	}
}

// CalculateMeta generates pagination metadata for a page holding count items.
// A full page is assumed to have a successor.
func CalculateMeta(p PageParams, count int) PageMeta {
	return PageMeta{
		Offset:  p.Offset,
		Limit:   p.Limit,
		Count:   count,
		HasMore: p.Limit > 0 && count >= p.Limit,
	}
}
