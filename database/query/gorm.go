package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Apply runs params against db and returns one page of T.
func Apply[T any](db *gorm.DB, params Params, cfg Config) (*Result[T], error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = DefaultPageSize
	}

	q := db.Session(&gorm.Session{}).Model(new(T))
	if params.Search != "" && len(cfg.SearchFields) > 0 {
		q = applySearch(q, params.Search, cfg)
	}
	for _, cond := range params.Conditions {
		q = applyCondition(q, cond, cfg)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	q = applySort(q, params.SortBy, params.SortOrder, cfg)
	data := make([]T, 0, params.PageSize)
	if err := q.Offset((params.Page - 1) * params.PageSize).Limit(params.PageSize).Find(&data).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	totalPages := (int(total) + params.PageSize - 1) / params.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return &Result[T]{
		Data: data,
		Pagination: Pagination{
			Page:       params.Page,
			PageSize:   params.PageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	}, nil
}

func applySearch(db *gorm.DB, search string, cfg Config) *gorm.DB {
	pattern := "%" + strings.ToLower(search) + "%"
	conds := make([]string, 0, len(cfg.SearchFields))
	args := make([]interface{}, 0, len(cfg.SearchFields))
	for _, f := range cfg.SearchFields {
		conds = append(conds, fmt.Sprintf("LOWER(%s) LIKE ?", cfg.column(f)))
		args = append(args, pattern)
	}
	return db.Where(strings.Join(conds, " OR "), args...)
}

func applyCondition(db *gorm.DB, cond Condition, cfg Config) *gorm.DB {
	col := cfg.column(cond.Field)
	switch cond.Operator {
	case OpEq:
		return db.Where(fmt.Sprintf("%s = ?", col), cond.Value)
	case OpNeq:
		return db.Where(fmt.Sprintf("%s <> ?", col), cond.Value)
	case OpGte:
		return db.Where(fmt.Sprintf("%s >= ?", col), cond.Value)
	case OpLte:
		return db.Where(fmt.Sprintf("%s <= ?", col), cond.Value)
	case OpIn:
		values := cond.Values
		if len(values) == 0 && cond.Value != "" {
			values = strings.Split(cond.Value, ",")
		}
		if len(values) == 0 {
			return db
		}
		return db.Where(fmt.Sprintf("%s IN ?", col), values)
	case OpIlike:
		return db.Where(fmt.Sprintf("LOWER(%s) LIKE ?", col), "%"+strings.ToLower(cond.Value)+"%")
	}
	return db
}

func applySort(db *gorm.DB, sortBy, order string, cfg Config) *gorm.DB {
	for _, f := range cfg.AllowedSortFields {
		if f == sortBy {
			clause := cfg.column(sortBy)
			if order == "desc" {
				clause += " DESC"
			}
			return db.Order(clause)
		}
	}
	if cfg.DefaultSort != "" {
		return db.Order(cfg.DefaultSort)
	}
	return db
}
