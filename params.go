package gridpager

import (
	"fmt"
	"math"
)

// MaxPage is the largest page number a grid may request.
const MaxPage = math.MaxInt32

// Params are the paging parameters a grid store sends with every load:
//
//	?page=3&start=20&limit=10&sort=[{"property":"name","direction":"ASC"}]
//
// Page is 1-based. When both are sent, Page wins over Start.
type Params struct {
	Page  int      `json:"page" form:"page"`
	Start int      `json:"start" form:"start"`
	Limit int      `json:"limit" form:"limit"`
	Sort  []Sorter `json:"sort" form:"-"`
}

// Validate rejects page numbers above MaxPage.
func (p Params) Validate() error {
	if p.Page > MaxPage {
		return fmt.Errorf("%w: page %d exceeds %d", ErrInvalidParams, p.Page, MaxPage)
	}

	return nil
}

// Offset returns the number of records to skip for the given page size.
// Offsets that do not fit an int saturate at math.MaxInt.
func (p Params) Offset(limit int) int {
	switch {
	case p.Page >= 1:
		if limit > 0 && p.Page-1 > math.MaxInt/limit {
			return math.MaxInt
		}

		return (p.Page - 1) * limit
	case p.Start > 0:
		return p.Start
	default:
		return 0
	}
}
