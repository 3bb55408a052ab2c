// Package timeline arranges evaluated entries for display.
package timeline

import (
	"fmt"
	"sort"

	"github.com/dmitrijs2005/echoverse/internal/unlock"
)

// Group is one calendar month of entries.
type Group struct {
	Key     string // "2024-01", sorts chronologically
	Name    string // "January 2024"
	Entries []unlock.Status
}

// GroupByMonth buckets statuses by the month their entry was created, in the
// location of its CreatedAt. Months come newest first and so do the entries
// inside each month. The input is not modified.
func GroupByMonth(statuses []unlock.Status) []Group {
	byKey := make(map[string]*Group)
	for _, st := range statuses {
		created := st.Entry.CreatedAt
		key := fmt.Sprintf("%04d-%02d", created.Year(), int(created.Month()))
		g, ok := byKey[key]
		if !ok {
			g = &Group{Key: key, Name: created.Format("January 2006")}
			byKey[key] = g
		}
		g.Entries = append(g.Entries, st)
	}

	groups := make([]Group, 0, len(byKey))
	for _, g := range byKey {
		sort.SliceStable(g.Entries, func(i, j int) bool {
			return g.Entries[i].Entry.CreatedAt.After(g.Entries[j].Entry.CreatedAt)
		})
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key > groups[j].Key })
	return groups
}
