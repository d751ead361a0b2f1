package logging

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"github.com/veedubyou/separation-be/src/shared/lib/env"
)

// Setup installs JSON lines in production and text everywhere else.
func Setup(environment env.Environment) {
	switch environment {
	case env.Production:
		log.SetHandler(json.New(os.Stdout))
		log.SetLevel(log.InfoLevel)
	case env.Development:
		log.SetHandler(text.New(os.Stderr))
		log.SetLevel(log.DebugLevel)
	default:
		log.SetHandler(text.New(os.Stderr))
		log.SetLevel(log.WarnLevel)
	}
}
