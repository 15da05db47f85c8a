package criteria

import (
	"bytes"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

const templateHeader = `# Road safety scoring criteria.
#
# Every section and key is optional: anything omitted falls back to the
# built-in default, which is the value shown here. Penalties are points added
# to the 0-10 risk score; bonuses are negative points.
`

// DefaultYAML renders the built-in criteria as an editable YAML document,
// used by "criteria init" to seed a config file.
func DefaultYAML() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(templateHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Default()); err != nil {
		return nil, eris.Wrap(err, "criteria: encode template")
	}
	if err := enc.Close(); err != nil {
		return nil, eris.Wrap(err, "criteria: close encoder")
	}

	return buf.Bytes(), nil
}
