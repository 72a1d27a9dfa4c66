// Package prompt loads the system prompt sent with every revision.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Default is used when no prompt file exists.
const Default = "Revise the text for clarity and concision. Preserve meaning. Keep same language. Plain text only."

// Load reads the prompt at path, trimmed. A missing or blank file yields Default.
func Load(path string, log logrus.FieldLogger) (string, error) {
	if path == "" {
		log.Info("No prompt file configured; using default.")
		return Default, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("Prompt file missing; using default.")
		return Default, nil
	}
	if err != nil {
		return "", fmt.Errorf("could not read prompt file %s: %w", path, err)
	}

	p := strings.TrimSpace(string(data))
	if p == "" {
		log.Warnf("Prompt file %s is empty; using default.", path)
		return Default, nil
	}
	log.Infof("Prompt loaded (%d chars)", len([]rune(p)))
	return p, nil
}
