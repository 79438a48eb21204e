package export

import (
	"encoding/json"

	"flowarrows/connections"
)

// JSONExporter exports the arrow list as JSON
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export encodes the scene's arrows. A scene without arrows encodes as [].
func (e *JSONExporter) Export(s Scene) ([]byte, error) {
	arrows := s.Arrows
	if arrows == nil {
		arrows = []connections.Arrow{}
	}
	data, err := json.MarshalIndent(arrows, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
