package gridpager

import "errors"

// Dump errors are configuration or programming errors. They are never
// retried and always fail the whole dump operation. Use errors.Is to match
// them; the wrapping message names the offending type and field.
var (
	// ErrNoSuchMember is returned when neither a getter, an isser nor a field
	// exists for the requested name.
	ErrNoSuchMember = errors.New("no such member")
	// ErrAccessDenied is returned when a member with the requested name exists
	// but is not exported.
	ErrAccessDenied = errors.New("access denied")
	// ErrFieldNotFound is returned when a nested path traverses a nil value.
	ErrFieldNotFound = errors.New("field not found")
	// ErrNoMappingConfigured is returned when no explicit field list is given
	// and the entity type has no configured field mapping.
	ErrNoMappingConfigured = errors.New("no mapping configured")
	// ErrInvalidFieldPath is returned for empty paths or empty path segments.
	ErrInvalidFieldPath = errors.New("invalid field path")
	// ErrMaxDepthExceeded is returned when nested values are expanded deeper
	// than the dumper's MaxDepth, which usually means a cyclic mapping.
	ErrMaxDepthExceeded = errors.New("max depth exceeded")
	// ErrInvalidSort is returned by the Pager for unknown sort properties or
	// directions.
	ErrInvalidSort = errors.New("invalid sort")
	// ErrInvalidParams is returned for paging parameters out of range.
	ErrInvalidParams = errors.New("invalid paging params")
)
