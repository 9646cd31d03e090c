// Package schemas embeds the JSON Schemas used to validate runtime payloads
// before they are decoded into models.
package schemas

import _ "embed"

//go:embed experience.schema.json
var ExperienceSchemaJSON string

//go:embed multimodal.schema.json
var MultiModalSchemaJSON string
