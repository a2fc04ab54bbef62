// Package formfile reads and writes forms as YAML files, for fixtures and
// the CLI. Loaded forms are validated so a hand-edited file fails fast.
package formfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/CodeSapiens-in/formengine/pkg/schema"
)

// Load reads and validates a form from a YAML file.
func Load(path string) (schema.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Form{}, fmt.Errorf("formfile: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a form from YAML bytes.
func Parse(data []byte) (schema.Form, error) {
	var form schema.Form
	if err := yaml.Unmarshal(data, &form); err != nil {
		return schema.Form{}, fmt.Errorf("formfile: decode form: %w", err)
	}
	if err := schema.ValidateForm(form); err != nil {
		return schema.Form{}, fmt.Errorf("formfile: invalid form: %w", err)
	}
	return form, nil
}

// Save validates and writes a form to a YAML file.
func Save(path string, form schema.Form) error {
	if err := schema.ValidateForm(form); err != nil {
		return fmt.Errorf("formfile: invalid form: %w", err)
	}
	data, err := yaml.Marshal(form)
	if err != nil {
		return fmt.Errorf("formfile: encode form: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("formfile: write %q: %w", path, err)
	}
	return nil
}
