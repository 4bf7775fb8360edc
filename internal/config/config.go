package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/solen/mdkit/pkg/markdown"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
// This centralizes default values and descriptions in one place.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// Configure Viper search paths. If SetConfigFile was provided upstream,
	// it takes precedence; these paths are harmless fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "mdkit"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "mdkit"))
		}
		v.AddConfigPath(".")
	}

	// Apply centralized defaults (lowest precedence)
	applyDefaults(v)

	// Read config file if present (overrides defaults)
	_ = v.ReadInConfig()

	// Environment variables: MDKIT_* (highest among these sources)
	v.SetEnvPrefix("mdkit")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Normalize dependent values post-merge
	if v.GetString("cache.path") == "" {
		v.Set("cache.path", DefaultCachePath())
	}
	return CheckConfigValidity(v)
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/mdkit or ~/.local/share/mdkit
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mdkit")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "mdkit")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "mdkit", "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// DefaultCachePath builds the default sqlite cache path from data_dir rules.
func DefaultCachePath() string {
	return filepath.Join(defaultDataDir(), "cache.db")
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "style_path", Default: "", Comment: "CSS file inlined into full-page output; empty uses the built-in stylesheet"},

		{Key: "convert.auto_hyperlink", Default: true, Comment: "Link bare http/https/ftp URLs"},
		{Key: "convert.auto_newlines", Default: false, Comment: "Treat every newline as a hard break"},
		{Key: "convert.empty_element_suffix", Default: " />", Comment: "Void element closer: \" />\" (XHTML) or \">\" (HTML)"},
		{Key: "convert.encode_problem_urls", Default: true, Comment: "Percent-encode characters that break markup inside link targets"},
		{Key: "convert.link_emails", Default: true, Comment: "Turn <address> into an obfuscated mailto link"},
		{Key: "convert.strict_emphasis", Default: true, Comment: "Require non-word boundaries around * and _ emphasis"},

		{Key: "cache.enabled", Default: false, Comment: "Cache rendered fragments in a local sqlite database"},
		{Key: "cache.path", Default: "", Comment: "Cache database path; empty uses $XDG_DATA_HOME/mdkit/cache.db"},

		{Key: "serve.addr", Default: "127.0.0.1:6419", Comment: "Preview server listen address"},
		{Key: "serve.debounce_ms", Default: 100, Comment: "Delay before re-rendering after a file change, in milliseconds"},
	}
}

// ResolveCachePath returns the sqlite cache file path, expanding ~ for convenience.
func ResolveCachePath(v *viper.Viper) string {
	p := v.GetString("cache.path")
	if p == "" {
		p = DefaultCachePath()
	}
	if len(p) > 0 && p[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}

// OptionsFromConfig maps the convert.* keys onto converter options.
func OptionsFromConfig(v *viper.Viper) markdown.Options {
	opts := markdown.DefaultOptions()
	opts.AutoHyperlink = v.GetBool("convert.auto_hyperlink")
	opts.AutoNewlines = v.GetBool("convert.auto_newlines")
	if s := v.GetString("convert.empty_element_suffix"); s != "" {
		opts.EmptyElementSuffix = s
	}
	opts.EncodeProblemURLCharacters = v.GetBool("convert.encode_problem_urls")
	opts.LinkEmails = v.GetBool("convert.link_emails")
	opts.StrictBoldItalic = v.GetBool("convert.strict_emphasis")
	return opts
}

// CheckConfigValidity reports configuration values no command could act on.
func CheckConfigValidity(v *viper.Viper) error {
	var problems []string
	if s := v.GetString("convert.empty_element_suffix"); s != " />" && s != ">" && s != "/>" {
		problems = append(problems, fmt.Sprintf("convert.empty_element_suffix must be \" />\", \"/>\" or \">\" (got %q)", s))
	}
	if v.GetInt("serve.debounce_ms") < 0 {
		problems = append(problems, "serve.debounce_ms must not be negative")
	}
	if addr := v.GetString("serve.addr"); strings.TrimSpace(addr) == "" {
		problems = append(problems, "serve.addr is required")
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
}
