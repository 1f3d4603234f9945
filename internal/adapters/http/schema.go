package http

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const envelopeSchemaURL = "https://devicereport.schemas.local/webhook.schema.json"

//go:embed webhook.schema.json
var envelopeSchemaJSON string

var (
	envelopeSchemaOnce sync.Once
	envelopeSchema     *jsonschema.Schema
	envelopeSchemaErr  error
)

func compiledEnvelopeSchema() (*jsonschema.Schema, error) {
	envelopeSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(envelopeSchemaURL, strings.NewReader(envelopeSchemaJSON)); err != nil {
			envelopeSchemaErr = fmt.Errorf("envelope schema load failed: %w", err)
			return
		}
		envelopeSchema, envelopeSchemaErr = c.Compile(envelopeSchemaURL)
	})
	return envelopeSchema, envelopeSchemaErr
}

// ValidateEnvelope checks an encoded webhook body against the webhook
// service's documented limits.
func ValidateEnvelope(body []byte) error {
	schema, err := compiledEnvelopeSchema()
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("envelope rejected: %w", err)
	}
	return nil
}
