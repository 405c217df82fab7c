package scene

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML scene, checking it against the same schema as
// JSON scenes
func ParseYAML(data []byte) (*Scene, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scene: %w", err)
	}
	if err := SceneValidator().Validate(doc); err != nil {
		return nil, err
	}

	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scene: %w", err)
	}
	if err := s.Prepare(); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveYAML writes the scene as YAML
func SaveYAML(s *Scene, filename string) error {
	log.Printf("💾 Saving scene to %s...\n", filename)

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	log.Printf("   ✅ Scene saved (%d bytes)\n", len(data))
	return nil
}
