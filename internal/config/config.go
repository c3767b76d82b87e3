// Package config loads per-action settings from flags, environment and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/ochairo/debugfile/internal/domain/entities"
	"github.com/ochairo/debugfile/internal/domain/services"
)

// Defaults shared by the actions
const (
	DefaultOutputPath = "."
	DefaultAppPath    = "app"
	DefaultBuildType  = "release"

	// XcodebuildArchiveEnv points at the archive produced by a preceding build step
	XcodebuildArchiveEnv = "XCODEBUILD_ARCHIVE"
)

// Configuration keys
const (
	KeyArchivePath    = "archive_path"
	KeyScheme         = "scheme"
	KeyExtraDSYM      = "extra_dsym"
	KeyReleaseVersion = "release_version"
	KeyBuild          = "build"
	KeyLatestBy       = "latest_by"
	KeyOutputPath     = "output_path"
	KeyOverwrite      = "overwrite"
	KeyAppPath        = "app_path"
	KeyBuildType      = "build_type"
	KeyFlavor         = "flavor"
	KeyExtraFiles     = "extra_files"
	KeyChecksum       = "checksum"
	KeySignKey        = "sign_key"
	KeySignPassphrase = "sign_passphrase"
	KeyExportFile     = "export_file"
	KeyExportEnv      = "export_env"
	KeyVerbose        = "verbose"
	KeyFormat         = "format"
)

// DefaultArchivePath is the archive produced by a preceding xcodebuild step
// when XCODEBUILD_ARCHIVE is set, else the platform's conventional archive directory
func DefaultArchivePath() string {
	if p := os.Getenv(XcodebuildArchiveEnv); p != "" {
		return p
	}
	if runtime.GOOS == "darwin" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Developer", "Xcode", "Archives")
		}
	}
	return "."
}

// OutputConfig controls where and how an archive is written
type OutputConfig struct {
	OutputPath     string
	Overwrite      bool
	Checksum       bool
	SignKey        string
	SignPassphrase string
}

// DSYMConfig configures the dSYM find and package actions
type DSYMConfig struct {
	ArchivePath    string
	Scheme         string
	ExtraDSYM      []string
	ReleaseVersion string
	Build          string
	LatestBy       services.LatestBy
	Output         OutputConfig
}

// ListConfig configures the dSYM listing action
type ListConfig struct {
	ArchivePath    string
	Scheme         string
	ReleaseVersion string
	Build          string
	Format         string
}

// ProguardConfig configures the ProGuard packaging action
type ProguardConfig struct {
	AppPath    string
	BuildType  string
	Flavor     string
	ExtraFiles []string
	Output     OutputConfig
}

// ExportConfig configures how shared values leave the process
type ExportConfig struct {
	File string
	Env  bool
}

// BindDSYMEnv registers environment variables and defaults for dSYM actions
func BindDSYMEnv(v *viper.Viper) {
	bindEnv(v, map[string]string{
		KeyArchivePath:    "DF_DSYM_ARCHIVE_PATH",
		KeyScheme:         "DF_DSYM_SCHEME",
		KeyExtraDSYM:      "DF_DSYM_EXTRA_DSYM",
		KeyReleaseVersion: "DF_DSYM_RELEASE_VERSION",
		KeyBuild:          "DF_DSYM_BUILD",
		KeyLatestBy:       "DF_DSYM_LATEST_BY",
		KeyOutputPath:     "DF_DSYM_OUTPUT_PATH",
		KeyOverwrite:      "DF_DSYM_OVERWRITE",
	})
	bindCommonEnv(v)

	v.SetDefault(KeyArchivePath, DefaultArchivePath())
	v.SetDefault(KeyOutputPath, DefaultOutputPath)
	v.SetDefault(KeyLatestBy, string(services.LatestByDate))
	v.SetDefault(KeyFormat, "text")
}

// BindProguardEnv registers environment variables and defaults for the ProGuard action
func BindProguardEnv(v *viper.Viper) {
	bindEnv(v, map[string]string{
		KeyAppPath:    "DF_PROGUARD_PATH",
		KeyBuildType:  "DF_PROGUARD_BUILD_TYPE",
		KeyFlavor:     "DF_PROGUARD_FLAVOR",
		KeyExtraFiles: "DF_PROGUARD_EXTRA_FILES",
		KeyOutputPath: "DF_PROGUARD_OUTPUT_PATH",
		KeyOverwrite:  "DF_PROGUARD_OVERWRITE",
	})
	bindCommonEnv(v)

	v.SetDefault(KeyAppPath, DefaultAppPath)
	v.SetDefault(KeyBuildType, DefaultBuildType)
	v.SetDefault(KeyOutputPath, DefaultOutputPath)
}

func bindCommonEnv(v *viper.Viper) {
	bindEnv(v, map[string]string{
		KeyChecksum:       "DF_CHECKSUM",
		KeySignKey:        "DF_SIGN_KEY",
		KeySignPassphrase: "DF_SIGN_PASSPHRASE",
		KeyExportFile:     "DF_EXPORT_FILE",
		KeyExportEnv:      "DF_EXPORT_ENV",
	})
}

func bindEnv(v *viper.Viper, keys map[string]string) {
	for key, env := range keys {
		// BindEnv only fails when no key is given
		_ = v.BindEnv(key, env)
	}
}

// ReadFile merges a YAML config file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return entities.NewUserError(entities.ErrInvalidConfig, "Failed to read config file %s: %v", path, err)
	}
	return nil
}

// LoadDSYM builds a validated DSYMConfig
func LoadDSYM(v *viper.Viper) (DSYMConfig, error) {
	latestBy, err := services.ParseLatestBy(v.GetString(KeyLatestBy))
	if err != nil {
		return DSYMConfig{}, entities.NewUserError(entities.ErrInvalidConfig, "%v", err)
	}

	cfg := DSYMConfig{
		ArchivePath:    expandHome(v.GetString(KeyArchivePath)),
		Scheme:         v.GetString(KeyScheme),
		ExtraDSYM:      stringList(v, KeyExtraDSYM),
		ReleaseVersion: v.GetString(KeyReleaseVersion),
		Build:          v.GetString(KeyBuild),
		LatestBy:       latestBy,
		Output:         loadOutput(v),
	}
	return cfg, cfg.Validate()
}

// Validate checks required values
func (c DSYMConfig) Validate() error {
	if c.ArchivePath == "" {
		return entities.NewUserError(entities.ErrInvalidConfig, "archive_path is required")
	}
	return c.Output.Validate()
}

// LoadList builds a validated ListConfig
func LoadList(v *viper.Viper) (ListConfig, error) {
	cfg := ListConfig{
		ArchivePath:    expandHome(v.GetString(KeyArchivePath)),
		Scheme:         v.GetString(KeyScheme),
		ReleaseVersion: v.GetString(KeyReleaseVersion),
		Build:          v.GetString(KeyBuild),
		Format:         strings.ToLower(v.GetString(KeyFormat)),
	}
	return cfg, cfg.Validate()
}

// Validate checks required values and the output format
func (c ListConfig) Validate() error {
	if c.ArchivePath == "" {
		return entities.NewUserError(entities.ErrInvalidConfig, "archive_path is required")
	}
	switch c.Format {
	case "", "text", "yaml":
		return nil
	default:
		return entities.NewUserError(entities.ErrInvalidConfig, "unknown format %q (want text or yaml)", c.Format)
	}
}

// LoadProguard builds a validated ProguardConfig
func LoadProguard(v *viper.Viper) (ProguardConfig, error) {
	cfg := ProguardConfig{
		AppPath:    expandHome(v.GetString(KeyAppPath)),
		BuildType:  v.GetString(KeyBuildType),
		Flavor:     v.GetString(KeyFlavor),
		ExtraFiles: stringList(v, KeyExtraFiles),
		Output:     loadOutput(v),
	}
	return cfg, cfg.Validate()
}

// Validate checks required values
func (c ProguardConfig) Validate() error {
	if c.AppPath == "" {
		return entities.NewUserError(entities.ErrInvalidConfig, "app_path is required")
	}
	if c.BuildType == "" {
		return entities.NewUserError(entities.ErrInvalidConfig, "build_type is required")
	}
	return c.Output.Validate()
}

// LoadExport reads the export settings
func LoadExport(v *viper.Viper) ExportConfig {
	return ExportConfig{
		File: expandHome(v.GetString(KeyExportFile)),
		Env:  v.GetBool(KeyExportEnv),
	}
}

func loadOutput(v *viper.Viper) OutputConfig {
	return OutputConfig{
		OutputPath:     expandHome(v.GetString(KeyOutputPath)),
		Overwrite:      v.GetBool(KeyOverwrite),
		Checksum:       v.GetBool(KeyChecksum),
		SignKey:        expandHome(v.GetString(KeySignKey)),
		SignPassphrase: v.GetString(KeySignPassphrase),
	}
}

// Validate checks required values
func (c OutputConfig) Validate() error {
	if c.OutputPath == "" {
		return entities.NewUserError(entities.ErrInvalidConfig, "output_path is required")
	}
	if c.SignPassphrase != "" && c.SignKey == "" {
		return entities.NewUserError(entities.ErrInvalidConfig, "sign_passphrase requires sign_key")
	}
	return nil
}

// stringList reads a list that may come from a flag, a YAML sequence, or a
// comma separated environment variable. Items may contain spaces.
func stringList(v *viper.Viper, key string) []string {
	var raw []string
	switch value := v.Get(key).(type) {
	case nil:
	case string:
		raw = []string{value}
	default:
		raw = cast.ToStringSlice(value)
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Describe renders non-secret settings for debug logging
func (c OutputConfig) Describe() string {
	return fmt.Sprintf("output=%s overwrite=%t checksum=%t signed=%t", c.OutputPath, c.Overwrite, c.Checksum, c.SignKey != "")
}
