package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/cssinterop/pkg/parser"
	"github.com/gnana997/cssinterop/pkg/runner"
	"github.com/gnana997/cssinterop/pkg/util"
)

const defaultConfigPath = ".cssinterop/config.yaml"

// ProjectConfig holds the contents of .cssinterop/config.yaml.
type ProjectConfig struct {
	Version   string   `yaml:"version"`
	Include   []string `yaml:"include"`
	Exclude   []string `yaml:"exclude"`
	Deny      []string `yaml:"deny"`
	OutDir    string   `yaml:"out_dir"`
	LogLevel  string   `yaml:"log_level"`
	LogFormat string   `yaml:"log_format"`
	Workers   int      `yaml:"workers"`
	ToolLog   string   `yaml:"tool_log"`
}

// loadProjectConfig reads the config at path. A missing file at the
// default path returns nil (no error); a missing file that was asked for
// explicitly is an error.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// settings is the effective configuration of one command.
type settings struct {
	runOpts   runner.Options
	deny      []string
	logConfig util.LoggerConfig
	toolLog   string
	filename  string
	// lang forces the grammar for stdin input; LanguageUnknown means
	// detect it from filename.
	lang parser.Language
}

// resolveSettings applies the fallback chain for every setting:
//  1. Explicit flag value
//  2. Value from .cssinterop/config.yaml
//  3. Built-in default
func resolveSettings(f *cliFlags, cfg *ProjectConfig) (settings, error) {
	if cfg == nil {
		cfg = &ProjectConfig{}
	}

	s := settings{
		runOpts:   runner.DefaultOptions(),
		deny:      cfg.Deny,
		logConfig: util.DefaultLoggerConfig(),
		toolLog:   firstNonEmpty(f.toolLog, cfg.ToolLog),
		filename:  f.filename,
		lang:      parser.LanguageUnknown,
	}

	if f.lang != "" {
		lang, err := parser.LanguageFromName(f.lang)
		if err != nil {
			return settings{}, err
		}
		s.lang = lang
	}

	if len(cfg.Include) > 0 {
		s.runOpts.Include = cfg.Include
	}
	if len(cfg.Exclude) > 0 {
		s.runOpts.Exclude = cfg.Exclude
	}
	s.runOpts.OutDir = firstNonEmpty(f.outDir, cfg.OutDir)

	switch {
	case f.workers > 0:
		s.runOpts.Workers = f.workers
	case cfg.Workers > 0:
		s.runOpts.Workers = cfg.Workers
	}

	level, err := util.ParseLogLevel(firstNonEmpty(f.logLevel, cfg.LogLevel))
	if err != nil {
		return settings{}, err
	}
	format, err := util.ParseLogFormat(firstNonEmpty(f.logFormat, cfg.LogFormat))
	if err != nil {
		return settings{}, err
	}
	s.logConfig.Level = level
	s.logConfig.Format = format

	return s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
