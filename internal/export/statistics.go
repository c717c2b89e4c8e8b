package export

import (
	"context"
	"sort"

	"github.com/forzaops/registro/internal/domain/task"
)

// uncategorized is the group label for records with no category.
const uncategorized = "Sin Categoría"

// StatisticsOptions filters the statistics view. Zero Desde/Hasta
// disable the date bound on that side; Category empty means all.
type StatisticsOptions struct {
	Desde               string
	Hasta               string
	Category            string
	IncludeIncidencias  bool
	IncludeAsignaciones bool
}

// Group is one category bucket of the statistics view, records sorted
// by consecutivo descending.
type Group struct {
	Category string      `json:"category"`
	Tasks    []task.Task `json:"tasks"`
}

// Statistics groups the selected records by category label. The label
// is the free-text value for Otros records that carry one and
// "Sin Categoría" for uncategorized records. Groups come back sorted
// by label.
func (s *Service) Statistics(ctx context.Context, opts StatisticsOptions) []Group {
	incidencias, asignaciones := s.collections.Snapshot()
	var pool []task.Task
	if opts.IncludeIncidencias {
		pool = append(pool, incidencias...)
	}
	if opts.IncludeAsignaciones {
		pool = append(pool, asignaciones...)
	}

	buckets := make(map[string][]task.Task)
	for i := range pool {
		t := &pool[i]
		if opts.Desde != "" && t.Fecha < opts.Desde {
			continue
		}
		if opts.Hasta != "" && t.Fecha > opts.Hasta {
			continue
		}
		label := t.CategoryLabel()
		if opts.Category != "" && label != opts.Category {
			continue
		}
		if label == "" {
			label = uncategorized
		}
		buckets[label] = append(buckets[label], *t)
	}

	groups := make([]Group, 0, len(buckets))
	for label, tasks := range buckets {
		sortByConsecutivoDesc(tasks)
		groups = append(groups, Group{Category: label, Tasks: tasks})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Category < groups[j].Category
	})
	return groups
}
