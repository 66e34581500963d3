package gridpager

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Direction defines the sort direction for the requested dataset.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

type (
	Orderings []OrderBy
	OrderBy   struct {
		Column    string
		Direction Direction
	}

	// Sorter is a single sort instruction as sent by the grid:
	//
	//	{"property": "created_at", "direction": "DESC"}
	Sorter struct {
		Property  string `json:"property" form:"property"`
		Direction string `json:"direction" form:"direction"`
	}

	ColumnAlias = string

	// ColumnMapping maps external column aliases to fully qualified column names.
	// Use it when bare column names could cause an "ambiguous column name" error,
	// or when a grid property has no column of the same name.
	// Key is an external alias, value is an internal column name.
	ColumnMapping map[ColumnAlias]string

	// ColumnResolver maps a grid sort property to a column name.
	ColumnResolver func(property string) (string, error)
)

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

func (o OrderBy) validate() error {
	if !o.Direction.Valid() {
		return fmt.Errorf("%w: invalid ordering direction '%s'", ErrInvalidSort, o.Direction)
	}

	// Guard against SQL injection by restricting allowed characters in column names.
	if o.Column == "" || !lo.Every(_availableColumnNameSymbols, []rune(o.Column)) {
		return fmt.Errorf("%w: ordering column name contains forbidden symbols '%s'", ErrInvalidSort, o.Column)
	}

	return nil
}

// ToSQLSlice converts Orderings to a slice of strings in the form
// "<order_column> <order_direction>" suitable for SQL query builders.
//
// Example: for Orderings: [{"a", "ASC"}, {"b", "DESC"}] returns ["a ASC", "b DESC"].
func (o Orderings) ToSQLSlice() []string {
	ret := make([]string, 0, len(o))
	for _, ordering := range o {
		ret = append(ret, fmt.Sprintf("%s %s", ordering.Column, ordering.Direction))
	}

	return ret
}

// ToSQL converts Orderings to a single string
// "<order_column_1> <order_direction_1>, <order_column_2> <order_direction_2>"
// suitable for embedding into an SQL query.
// Example: for [{"a", "ASC"}, {"b", "DESC"}] returns "a ASC, b DESC".
func (o Orderings) ToSQL() string {
	return strings.Join(o.ToSQLSlice(), ", ")
}

// Apply applies the ordering to a gorm query.
func (o Orderings) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(o.ToSQL())
}

func (o Orderings) validate() error {
	if len(o) == 0 {
		return fmt.Errorf("%w: empty ordering list", ErrInvalidSort)
	}

	var err error
	for _, ordering := range o {
		err = ordering.validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// ParseSorters decodes the grid "sort" request parameter. Two forms are
// accepted:
//
//	sort=[{"property":"name","direction":"ASC"}]   (JSON encoded list)
//	sort=name&dir=DESC                              (single property)
//
// An empty raw value yields no sorters.
func ParseSorters(raw string, dir string) ([]Sorter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if strings.HasPrefix(raw, "[") {
		var sorters []Sorter
		if err := json.Unmarshal([]byte(raw), &sorters); err != nil {
			return nil, fmt.Errorf("%w: failed to unmarshal json encoded sort: %w", ErrInvalidSort, err)
		}

		return sorters, nil
	}

	return []Sorter{{Property: raw, Direction: dir}}, nil
}

// ParseSort builds Orderings from grid sorters. Properties are mapped to
// columns by resolve; an empty direction means ascending.
func ParseSort(sorters []Sorter, resolve ColumnResolver) (Orderings, error) {
	ret := make(Orderings, 0, len(sorters))

	for _, sorter := range sorters {
		column, err := resolve(strings.TrimSpace(sorter.Property))
		if err != nil {
			return nil, err
		}

		direction := Direction(strings.ToUpper(strings.TrimSpace(sorter.Direction)))
		if direction == "" {
			direction = DirectionASC
		}

		ordering := OrderBy{
			Column:    column,
			Direction: direction,
		}
		if err = ordering.validate(); err != nil {
			return nil, err
		}

		ret = append(ret, ordering)
	}

	return ret, nil
}

// Lookup returns the column for a property, trying the property as is and
// then its camelized form ("birthday_at" -> "birthdayAt").
func (m ColumnMapping) Lookup(property string) (string, bool) {
	if column, ok := m[property]; ok && column != "" {
		return column, true
	}

	column, ok := m[Camelize(property)]

	return column, ok && column != ""
}

// Resolve - implements ColumnResolver. Returns an error naming the closest
// alias for unknown properties.
func (m ColumnMapping) Resolve(property string) (string, error) {
	if column, ok := m.Lookup(property); ok {
		return column, nil
	}

	return "", fmt.Errorf("%w: invalid column alias '%s'. closest: '%s'", ErrInvalidSort, property, closestAlias(property, lo.Keys(m)))
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		if dist < minDist || (dist == minDist && dataSetAlias < closest) {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}
