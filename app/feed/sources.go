package feed

import (
	"fmt"
	"sort"
	"strings"
)

// Sources derives one feed source per configured artist. The result is sorted
// by artist name so repeated passes walk the sources in a stable order.
func Sources(artists map[string]string, rsshubURL string) []Source {
	base := strings.TrimSuffix(rsshubURL, "/")

	sources := make([]Source, 0, len(artists))
	for name, id := range artists {
		sources = append(sources, Source{
			Name:     name,
			ArtistID: id,
			URL:      fmt.Sprintf("%s/ncm/artist/%s", base, id),
		})
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Name < sources[j].Name
	})

	return sources
}
