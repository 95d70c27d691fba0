package query

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Parse extracts list parameters from URL query values.
// Filters on fields outside cfg.AllowedFilters are ignored.
func Parse(q url.Values, cfg Config) Params {
	params := Params{
		Page:      intOrDefault(q.Get("page"), 1),
		PageSize:  clamp(intOrDefault(q.Get("page_size"), DefaultPageSize), 1, MaxPageSize),
		SortBy:    q.Get("sort"),
		SortOrder: normalizeSortOrder(q.Get("order")),
		Search:    strings.TrimSpace(q.Get("search")),
	}
	for _, field := range cfg.AllowedFilters {
		if v := q.Get(field); v != "" {
			params.Conditions = append(params.Conditions, parseCondition(field, v))
		}
	}
	return params
}

// parseCondition parses op.value; a value without a known operator is an equality match.
func parseCondition(field, value string) Condition {
	op, raw, found := strings.Cut(value, ".")
	if !found || !Operator(op).valid() {
		return Condition{Field: field, Operator: OpEq, Value: value}
	}
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		var values []string
		for _, v := range strings.Split(raw[1:len(raw)-1], ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		return Condition{Field: field, Operator: Operator(op), Values: values}
	}
	return Condition{Field: field, Operator: Operator(op), Value: raw}
}

func intOrDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

func clamp(v, lower, upper int) int {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}

func normalizeSortOrder(s string) string {
	if strings.EqualFold(s, "asc") {
		return "asc"
	}
	return "desc"
}
