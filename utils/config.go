package utils

import (
	"os"
	"path/filepath"

	"genotyper/api/models"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

const ConfigFileEnv = "GENOTYPER_CONFIG_FILE"

// LoadConfig reads the environment and, when GENOTYPER_CONFIG_FILE points
// at a yaml file, overlays the keys that file sets.
func LoadConfig() (*models.Config, error) {
	var cfg models.Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "processing environment")
	}

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := overlayYaml(&cfg, path); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

func overlayYaml(cfg *models.Config, path string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return errors.Wrapf(err, "opening config file %s", path)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return errors.Wrapf(err, "decoding config file %s", path)
	}
	return nil
}
