// Package query turns list-endpoint query strings into paginated, filtered
// and sorted GORM queries. Filters use the op.value form, e.g.
// ?status=in.(DONE,FAILED)&created_at=gte.2026-01-01.
package query

// Operator is a filter operator.
type Operator string

const (
	OpEq    Operator = "eq"
	OpNeq   Operator = "neq"
	OpGte   Operator = "gte"
	OpLte   Operator = "lte"
	OpIn    Operator = "in"
	OpIlike Operator = "ilike"
)

func (o Operator) valid() bool {
	switch o {
	case OpEq, OpNeq, OpGte, OpLte, OpIn, OpIlike:
		return true
	}
	return false
}

// Condition is one filter on one field.
type Condition struct {
	Field    string
	Operator Operator
	Value    string
	Values   []string
}

// Params holds parsed list parameters.
type Params struct {
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
	Search     string
	Conditions []Condition
}

// Pagination metadata returned in paginated results.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Result is a page of rows.
type Result[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Config restricts what a caller may filter and sort on for one table.
type Config struct {
	SearchFields      []string
	AllowedSortFields []string
	AllowedFilters    []string
	// FieldAliases maps public names to column names.
	FieldAliases map[string]string
	DefaultSort  string
}

// column returns the column for a public field name.
func (c Config) column(field string) string {
	if alias, ok := c.FieldAliases[field]; ok {
		return alias
	}
	return field
}
