package utils

import (
	"strconv"
	"strings"
)

// defaultLayerIDs are the GIS overlay layers shown when the route does
// not select any: the road network and ward boundary layers.
var defaultLayerIDs = []int{55, 57}

// DefaultLayerIDs returns a copy of the default overlay layer IDs.
func DefaultLayerIDs() []int {
	return append([]int(nil), defaultLayerIDs...)
}

// ParseLayerIDs parses the comma-separated layer-ID route segment the
// frontend uses to select GIS overlays (e.g. "0,1,25"). Invalid or
// non-numeric entries are dropped; if nothing valid remains the
// default pair is returned.
func ParseLayerIDs(segment string) []int {
	ids := make([]int, 0)
	for _, part := range strings.Split(segment, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return DefaultLayerIDs()
	}
	return ids
}
