// Package validation checks snapshot documents before they are routed.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalidSnapshot is returned when a document does not match the
// snapshot schema. The wrapped message lists every violation.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

const snapshotSchemaURL = "https://flowarrows.local/schemas/snapshot.json"

const snapshotSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["panels"],
  "properties": {
    "config": { "$ref": "#/$defs/config" },
    "panels": {
      "type": "array",
      "items": { "$ref": "#/$defs/panel" }
    },
    "context": { "$ref": "#/$defs/context" }
  },
  "additionalProperties": false,
  "$defs": {
    "point": {
      "type": "object",
      "required": ["x", "y"],
      "properties": {
        "x": { "type": "number" },
        "y": { "type": "number" }
      }
    },
    "connectionType": { "enum": ["resolve", "reject"] },
    "panel": {
      "type": "object",
      "required": ["id", "x", "y"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "x": { "type": "integer" },
        "y": { "type": "integer" },
        "resolve": { "type": "string" },
        "reject": { "type": "string" }
      }
    },
    "context": {
      "type": "object",
      "properties": {
        "editMode": { "type": "boolean" },
        "hoveredPanel": { "type": ["string", "null"] },
        "parentPanels": {
          "type": "object",
          "additionalProperties": {
            "type": "object",
            "properties": { "loner": { "type": "boolean" } }
          }
        },
        "arrowInfo": {
          "oneOf": [
            { "type": "null" },
            {
              "type": "object",
              "required": ["id", "type", "pos"],
              "properties": {
                "id": { "type": "string" },
                "type": { "$ref": "#/$defs/connectionType" },
                "pos": { "$ref": "#/$defs/point" }
              }
            }
          ]
        },
        "size": {
          "type": "object",
          "properties": {
            "width": { "type": "number", "minimum": 0, "maximum": 100000 },
            "height": { "type": "number", "minimum": 0, "maximum": 100000 }
          }
        }
      }
    },
    "config": {
      "type": "object",
      "properties": {
        "gridSize": { "type": "number", "exclusiveMinimum": 0 },
        "panelWidth": { "type": "integer", "minimum": 1 },
        "panelHeight": { "type": "integer", "minimum": 1 },
        "resolveOffset": { "$ref": "#/$defs/point" },
        "rejectOffset": { "$ref": "#/$defs/point" },
        "attachmentOffset": { "$ref": "#/$defs/point" },
        "startOffset": { "type": "number" },
        "cornerDistance": { "type": "number", "minimum": 0 },
        "boxOffset": { "type": "number", "minimum": 0 },
        "arrowSize": { "type": "number", "minimum": 0 },
        "hintLength": { "type": "integer" },
        "entryId": { "type": "string" }
      }
    }
  }
}`

// SnapshotValidator validates snapshot documents against the snapshot
// JSON Schema. It is safe for concurrent use.
type SnapshotValidator struct {
	schema *jsonschema.Schema
}

// NewSnapshotValidator compiles the snapshot schema.
func NewSnapshotValidator() (*SnapshotValidator, error) {
	c := jsonschema.NewCompiler()

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(snapshotSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal snapshot schema: %w", err)
	}
	if err := c.AddResource(snapshotSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add snapshot schema resource: %w", err)
	}
	schema, err := c.Compile(snapshotSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}
	return &SnapshotValidator{schema: schema}, nil
}

// Validate checks a raw JSON document.
func (v *SnapshotValidator) Validate(data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	if err := v.schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		return fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(Violations(verr), "; "))
	}
	return nil
}

// Violations walks a ValidationError tree and collects the leaf messages
// with their instance locations.
func Violations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/" + strings.Join(verr.InstanceLocation, "/")
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, Violations(cause)...)
	}
	return violations
}
