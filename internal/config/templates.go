package config

import (
	"fmt"
	"os"
)

func Template() string {
	return defaultTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(defaultTemplate), 0o600)
}

const defaultTemplate = `# wotreplay configuration

[log]
# trace | debug | info | warn | error | disabled
level = "info"
timestamp = true
no_color = false

[catalog]
# sqlite file written by "wotreplay index"
path = "wotreplay.db"
# concurrent decoders used while indexing
workers = 4
`
