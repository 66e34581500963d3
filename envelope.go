package gridpager

import "github.com/samber/lo"

// Envelope is the response shape a grid store reader expects:
//
//	{"records": [...], "success": true, "total": 30, "start": 0, "limit": 10}
//
// Failures are reported through returned errors, so Success is always true.
// Start is always 0: the grid keeps track of its own offset.
type Envelope[T any] struct {
	Records []T   `json:"records"`
	Success bool  `json:"success"`
	Total   int64 `json:"total"`
	Start   int   `json:"start"`
	Limit   int   `json:"limit"`
}

// Wrap assembles records into an Envelope. A nil total defaults to
// len(records), a nil limit defaults to 0.
func Wrap[T any](records []T, total *int64, limit *int) Envelope[T] {
	if records == nil {
		records = []T{}
	}

	return Envelope[T]{
		Records: records,
		Success: true,
		Total:   lo.FromPtrOr(total, int64(len(records))),
		Start:   0,
		Limit:   lo.FromPtrOr(limit, 0),
	}
}
