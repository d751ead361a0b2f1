package env

import (
	"os"

	"github.com/apex/log"
	"github.com/joho/godotenv"
)

// LoadDotEnv reads KEY=value pairs from path into the process environment
// without overriding anything already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return err
	}

	log.WithField("path", path).Debug("Loaded dotenv file")
	return nil
}
