package imports

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"jobapp/internal/profile"
	"jobapp/internal/shared/apperr"
)

const decodeOp = "imports.decode"

//go:embed resume.schema.json
var schemaJSON string

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
})

// extractJSONObject returns the raw answer when it is valid JSON, otherwise
// the outermost {...} span when that is valid.
func extractJSONObject(raw string) (string, error) {
	payload := strings.TrimSpace(raw)
	if payload == "" {
		return "", apperr.New(apperr.InvalidModelOutput, decodeOp, "empty model response", nil)
	}
	if json.Valid([]byte(payload)) {
		return payload, nil
	}

	start := strings.Index(payload, "{")
	end := strings.LastIndex(payload, "}")
	if start == -1 || end <= start {
		return "", apperr.New(apperr.InvalidModelOutput, decodeOp, "no JSON object in model response", nil)
	}
	candidate := payload[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", apperr.New(apperr.InvalidModelOutput, decodeOp, "model response contains malformed JSON", nil)
	}
	return candidate, nil
}

// decodeResume turns a model answer into profile content. Generation
// settings are left zero for the caller to merge.
func decodeResume(raw string) (profile.Profile, error) {
	payload, err := extractJSONObject(raw)
	if err != nil {
		return profile.Profile{}, err
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return profile.Profile{}, apperr.New(apperr.InvalidModelOutput, decodeOp, "model response is not a JSON object", err)
	}
	if err := validateSchema(doc); err != nil {
		return profile.Profile{}, err
	}
	normalizeGraduationYear(doc)

	normalized, err := json.Marshal(doc)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("re-encode parsed resume: %w", err)
	}
	var p profile.Profile
	if err := json.Unmarshal(normalized, &p); err != nil {
		return profile.Profile{}, apperr.New(apperr.InvalidModelOutput, decodeOp, "parsed resume has unexpected shape", err)
	}
	p.GenerationSettings = profile.GenerationSettings{}

	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Coursework == nil {
		p.Coursework = []string{}
	}
	if p.Experience == nil {
		p.Experience = []profile.Experience{}
	}
	if p.Volunteer == nil {
		p.Volunteer = []profile.Volunteer{}
	}
	return p, nil
}

func validateSchema(doc map[string]any) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("compile resume schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return apperr.New(apperr.InvalidModelOutput, decodeOp, "schema validation error", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return apperr.New(apperr.InvalidModelOutput, decodeOp, "parsed resume does not match schema: "+strings.Join(msgs, "; "), nil)
}

// normalizeGraduationYear stores a numeric year as a string.
func normalizeGraduationYear(doc map[string]any) {
	pi, ok := doc["personal_info"].(map[string]any)
	if !ok {
		return
	}
	if year, ok := pi["graduation_year"].(float64); ok {
		pi["graduation_year"] = strconv.FormatFloat(year, 'f', -1, 64)
	}
}
