package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/docgrab/docgrab/internal/common"
)

// Payload is the structured portion of a model reply.
type Payload struct {
	Text  string
	Table [][]string
}

// payloadSchema constrains the envelope, not the cells: text must be a
// string (or null), table a list of rows where each row is a list.
// Cell values inside a row are coerced leniently by cellString.
const payloadSchema = `{
	"type": "object",
	"properties": {
		"text":  {"type": ["string", "null"]},
		"table": {"type": ["array", "null"], "items": {"type": "array"}}
	}
}`

var payloadValidator = jsonschema.MustCompileString("payload.json", payloadSchema)

// ExtractPayload recovers the JSON object embedded in free-form model
// output: the substring from the first '{' to the last '}' is parsed as
// JSON and its "text" and "table" fields returned. If no brace pair is
// present, nothing was extracted and a zero Payload is returned without
// error. If the substring is not a valid JSON object matching the
// envelope, the error wraps common.ErrMalformedResponse.
//
// Known limitation: this assumes the payload is the last top-level
// brace in the reply. Trailing prose containing '}' after the payload,
// or unrelated objects following it, will mis-extract.
func ExtractPayload(raw string) (Payload, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return Payload{}, nil
	}

	var v any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &v); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	if err := payloadValidator.Validate(v); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return Payload{}, fmt.Errorf("%w: payload is not an object", common.ErrMalformedResponse)
	}

	var p Payload
	if s, ok := obj["text"].(string); ok {
		p.Text = s
	}
	if rows, ok := obj["table"].([]any); ok {
		for _, r := range rows {
			cells, _ := r.([]any) // row shape guaranteed by the schema
			row := make([]string, 0, len(cells))
			for _, c := range cells {
				row = append(row, cellString(c))
			}
			p.Table = append(p.Table, row)
		}
	}
	return p, nil
}

// cellString coerces a decoded JSON cell value to its string form so an
// off-type cell does not poison the whole unit.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
