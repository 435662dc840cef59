package cli

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

const shippedDefaultsDecodeErrorTemplateConstant = "decode shipped defaults: %w"

//go:embed default_config.yaml
var shippedDefaultsDocument []byte

// shippedDefaults is the configuration document compiled into the binary. The
// loader merges it beneath user files and environment overrides.
type shippedDefaults struct {
	document    []byte
	contentType string
}

func newShippedDefaults() shippedDefaults {
	return shippedDefaults{document: shippedDefaultsDocument, contentType: configurationTypeConstant}
}

// Document returns a copy of the raw YAML and its configuration type.
func (defaults shippedDefaults) Document() ([]byte, string) {
	return bytes.Clone(defaults.document), defaults.contentType
}

// Decode parses the document into ApplicationConfiguration, rejecting keys
// that no configuration field declares.
func (defaults shippedDefaults) Decode() (ApplicationConfiguration, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(defaults.document))
	decoder.KnownFields(true)

	decodedConfiguration := ApplicationConfiguration{}
	if decodeError := decoder.Decode(&decodedConfiguration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf(shippedDefaultsDecodeErrorTemplateConstant, decodeError)
	}
	return decodedConfiguration, nil
}
