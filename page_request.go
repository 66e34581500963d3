package gridpager

import (
	"fmt"
	"slices"

	"gorm.io/gorm"
)

// PageRequest is a LIMIT/OFFSET window over an ordered dataset.
//
// Builders are nil-safe, so a request can be assembled from scratch:
//
//	req := (*PageRequest)(nil).WithLimit(25).WithOffset(50).WithSort(
//		OrderBy{Column: "id", Direction: DirectionASC},
//	)
type PageRequest struct {
	limit  int
	offset int
	sort   Orderings
}

func NewPageRequest() *PageRequest {
	return &PageRequest{limit: DefaultLimit}
}

// WithLimit sets the maximum number of returned records, normalized by
// NormalizeLimit.
func (r *PageRequest) WithLimit(limit int) *PageRequest {
	return r.WithLimitMax(limit, MaxLimit)
}

// WithLimitMax sets the maximum number of returned records, normalized by
// NormalizeLimitMax.
func (r *PageRequest) WithLimitMax(limit int, maxLimit int) *PageRequest {
	if r == nil {
		r = new(PageRequest)
	}

	r.limit = NormalizeLimitMax(limit, maxLimit)

	return r
}

// WithOffset sets the number of records skipped. Negative offsets are
// treated as 0.
func (r *PageRequest) WithOffset(offset int) *PageRequest {
	if r == nil {
		r = new(PageRequest)
	}

	r.offset = max(offset, 0)

	return r
}

// WithSubstitutedSort resets previous orderings and applies the provided ones.
func (r *PageRequest) WithSubstitutedSort(orderBy ...OrderBy) *PageRequest {
	if r == nil {
		r = new(PageRequest)
	}

	r.sort = nil

	return r.WithSort(orderBy...)
}

// WithSort appends sort orderings without overwriting existing ones.
// Order is preserved as if calling:
//
//	OrderBy(o1).ThenBy(o2).ThenBy(o3)...
func (r *PageRequest) WithSort(orderBy ...OrderBy) *PageRequest {
	if r == nil {
		r = new(PageRequest)
	}

	for _, o := range orderBy {
		idx := slices.IndexFunc(r.sort, func(processed OrderBy) bool {
			return processed.Column == o.Column
		})

		// Remove previous occurrence (avoid duplication).
		if idx != -1 {
			r.sort = slices.Delete(r.sort, idx, idx+1)
		}

		r.sort = append(r.sort, o)
	}

	return r
}

// Paginate applies ordering, limit and offset to the dataset. Returns an
// error if pagination cannot be applied.
func (r *PageRequest) Paginate(db *gorm.DB) (*gorm.DB, error) {
	err := r.validate()
	if err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	db = r.sort.Apply(db).Limit(r.limit)
	if r.offset > 0 {
		db = db.Offset(r.offset)
	}

	return db, nil
}

// GetSort returns orderings that will be applied to the dataset.
func (r *PageRequest) GetSort() Orderings {
	if r == nil {
		return nil
	}

	return r.sort
}

// GetLimit returns the normalized limit.
func (r *PageRequest) GetLimit() int {
	if r == nil {
		return 0
	}

	return r.limit
}

// GetOffset returns the number of skipped records.
func (r *PageRequest) GetOffset() int {
	if r == nil {
		return 0
	}

	return r.offset
}

func (r *PageRequest) validate() error {
	if r == nil {
		return fmt.Errorf("page request is nil")
	}

	if r.limit <= 0 {
		return fmt.Errorf("page request limit must be positive, got %d", r.limit)
	}

	return r.sort.validate()
}
