package ingest

import (
	"strings"
	"time"
)

// ResolveDates parses values with the first layout that matches at least one
// of them and returns the parsed dates with that layout. Values that do not
// fit the chosen layout stay zero. When no layout matches anything, every
// date is zero and the layout is empty.
func ResolveDates(values []string, layouts []string) ([]time.Time, string) {
	dates := make([]time.Time, len(values))

	for _, layout := range layouts {
		matched := 0
		for i, v := range values {
			t, err := time.Parse(layout, strings.TrimSpace(v))
			if err != nil {
				dates[i] = time.Time{}
				continue
			}
			dates[i] = t
			matched++
		}
		if matched > 0 {
			return dates, layout
		}
	}

	return make([]time.Time, len(values)), ""
}
