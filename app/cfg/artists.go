package cfg

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// loadArtists merges the JSON env mapping with the optional YAML file.
// The file wins when both define the same artist name.
func loadArtists(configsJSON, artistsFile string) (map[string]string, error) {
	artists := make(map[string]string)

	if strings.TrimSpace(configsJSON) != "" {
		var fromEnv map[string]string
		if err := json.Unmarshal([]byte(configsJSON), &fromEnv); err != nil {
			return nil, fmt.Errorf("failed to parse CONFIGS: %w", err)
		}
		for name, id := range fromEnv {
			artists[name] = id
		}
	}

	if artistsFile != "" {
		raw, err := os.ReadFile(artistsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", artistsFile, err)
		}

		var fromFile map[string]string
		if err := yaml.Unmarshal(raw, &fromFile); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", artistsFile, err)
		}
		for name, id := range fromFile {
			artists[name] = id
		}
	}

	for name, id := range artists {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("artist %q has an empty id", name)
		}
	}

	return artists, nil
}
