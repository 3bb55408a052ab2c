package timeline

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/echoverse/internal/models"
	"github.com/dmitrijs2005/echoverse/internal/unlock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func status(id string, created time.Time) unlock.Status {
	return unlock.Status{Entry: models.Entry{ID: id, CreatedAt: created}}
}

func keysAndIDs(groups []Group) map[string][]string {
	out := make(map[string][]string)
	for _, g := range groups {
		for _, st := range g.Entries {
			out[g.Key] = append(out[g.Key], st.Entry.ID)
		}
	}
	return out
}

func TestGroupByMonth(t *testing.T) {
	in := []unlock.Status{
		status("jan-early", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)),
		status("dec", time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)),
		status("oct", time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)),
		status("jan-late", time.Date(2024, 1, 30, 9, 0, 0, 0, time.UTC)),
	}

	groups := GroupByMonth(in)

	var keys, names []string
	for _, g := range groups {
		keys = append(keys, g.Key)
		names = append(names, g.Name)
	}
	// "2024-10" must sort after "2024-01" although "1" < "9" in a naive key.
	assert.Equal(t, []string{"2024-10", "2024-01", "2023-12"}, keys)
	assert.Equal(t, []string{"October 2024", "January 2024", "December 2023"}, names)

	want := map[string][]string{
		"2024-10": {"oct"},
		"2024-01": {"jan-late", "jan-early"},
		"2023-12": {"dec"},
	}
	if diff := cmp.Diff(want, keysAndIDs(groups)); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "jan-early", in[0].Entry.ID, "input must not be reordered")
}

func TestGroupByMonth_Empty(t *testing.T) {
	assert.Empty(t, GroupByMonth(nil))
}

func TestGroupByMonth_KeepsStatus(t *testing.T) {
	st := status("a", time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC))
	st.Unlocked = true

	groups := GroupByMonth([]unlock.Status{st})
	assert.True(t, groups[0].Entries[0].Unlocked)
}
