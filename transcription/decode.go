package transcription

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeConfig decodes a loosely typed config section, as handed to
// provider factories, into out. Duration strings such as "90s" are parsed.
func DecodeConfig(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("decode provider config: %w", err)
	}
	return nil
}
