package storage

import (
	"sort"

	"github.com/mcoot/holdem/internal/model"
)

// SortTables orders tables oldest first, breaking ties by id
func SortTables(tables []*model.Table) {
	sort.Slice(tables, func(i, j int) bool {
		if !tables[i].CreatedAt.Equal(tables[j].CreatedAt) {
			return tables[i].CreatedAt.Before(tables[j].CreatedAt)
		}
		return tables[i].ID < tables[j].ID
	})
}
