// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// LoadTypeInfo reads a segmentation tool's type_info.json, mapping class id
// to label. The file's shape is {"1": ["neoplastic", [255, 0, 0]], ...};
// only the label is kept. Labels decorate progress output and run
// summaries; they never affect the feature or algmeta files.
func LoadTypeInfo(path string) (map[int]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading type info: %w", err)
	}

	var raw map[string][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing type info %s: %w", path, err)
	}

	labels := make(map[int]string, len(raw))
	for key, entry := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("type info %s: class id %q is not an integer", path, key)
		}
		if len(entry) == 0 {
			return nil, fmt.Errorf("type info %s: class %s has no label", path, key)
		}
		var label string
		if err := json.Unmarshal(entry[0], &label); err != nil {
			return nil, fmt.Errorf("type info %s: class %s label: %w", path, key, err)
		}
		labels[id] = label
	}
	return labels, nil
}
