// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package vmctlyaml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/sirupsen/logrus"
)

const (
	// DotVMCtl is a directory that appears under the home directory.
	DotVMCtl = ".vmctl"
	Filename = "vmctl.yaml"
)

// Dir returns the path of `~/.vmctl` (or $VMCTL_HOME, if set).
func Dir() (string, error) {
	dir := os.Getenv("VMCTL_HOME")
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(homeDir, DotVMCtl)
	}
	return dir, nil
}

// DefaultFile returns the path of the configuration file under Dir.
func DefaultFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, Filename), nil
}

// Load loads the yaml and fulfills unspecified fields with the default values.
//
// Load does not validate. Use Validate for validation.
func Load(b []byte, filename string) (*VMCtlYAML, error) {
	var y VMCtlYAML
	if err := Unmarshal(b, &y, filename); err != nil {
		return nil, err
	}
	FillDefault(&y)
	return &y, nil
}

// LoadFile loads path. A missing file yields the defaults.
func LoadFile(path string) (*VMCtlYAML, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		logrus.Debugf("Configuration file %q does not exist, using defaults", path)
		b = nil
	}
	return Load(b, path)
}

func Unmarshal(data []byte, y *VMCtlYAML, comment string) error {
	if err := yaml.UnmarshalWithOptions(data, y, yaml.DisallowDuplicateKey()); err != nil {
		return fmt.Errorf("failed to unmarshal YAML (%s): %w", comment, err)
	}
	var strict VMCtlYAML
	if err := yaml.UnmarshalWithOptions(data, &strict, yaml.Strict()); err != nil {
		logrus.WithField("comment", comment).WithError(err).Warn("Unknown fields in the configuration are ignored")
	}
	return nil
}

// Marshal the configuration as a YAML document.
func Marshal(y *VMCtlYAML) ([]byte, error) {
	return yaml.Marshal(y)
}
