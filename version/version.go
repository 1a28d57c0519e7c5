// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package version reports build metadata. Tag, Commit and Date are set at
// link time:
//
//	go build -ldflags "-X github.com/danielhkuo/mealpick/version.Tag=v1.2.0"
package version

import (
	"fmt"
	"runtime"

	"gopkg.in/yaml.v3"
)

var (
	// Git tag
	Tag string
	// Git commit
	Commit string
	// Build date
	Date string
)

type GoMetadata struct {
	Version string `yaml:"version" json:"version"`
	Arch    string `yaml:"arch" json:"arch"`
	OS      string `yaml:"os" json:"os"`
}

type Version struct {
	Tag      string     `yaml:"tag" json:"tag"`
	Commit   string     `yaml:"commit" json:"commit"`
	Date     string     `yaml:"build_date" json:"build_date"`
	Database string     `yaml:"database" json:"database"`
	Go       GoMetadata `yaml:"go" json:"go"`
}

// Get returns the build metadata, defaulting the tag to v0.0.0
func Get(databaseType string) Version {
	tag := Tag
	if tag == "" {
		tag = "v0.0.0"
	}
	return Version{
		Tag:      tag,
		Commit:   Commit,
		Date:     Date,
		Database: databaseType,
		Go: GoMetadata{
			Version: runtime.Version(),
			Arch:    runtime.GOARCH,
			OS:      runtime.GOOS,
		},
	}
}

// Banner renders the version as YAML for the startup log
func (v Version) Banner() (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal version: %w", err)
	}
	return string(out), nil
}
