package config

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigValidityValid(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	if err := CheckConfigValidity(v); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	v.Set("convert.empty_element_suffix", "<>")
	v.Set("serve.debounce_ms", -5)
	v.Set("serve.addr", " ")

	err := CheckConfigValidity(v)
	if err == nil {
		t.Fatalf("expected error for invalid config")
	}
	msg := err.Error()
	for _, want := range []string{
		"convert.empty_element_suffix",
		"serve.debounce_ms must not be negative",
		"serve.addr is required",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error missing %q: %s", want, msg)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	v := viper.New()
	require.NoError(t, Load(context.Background(), v))

	assert.True(t, v.GetBool("convert.auto_hyperlink"))
	assert.False(t, v.GetBool("convert.auto_newlines"))
	assert.Equal(t, " />", v.GetString("convert.empty_element_suffix"))
	assert.Equal(t, "127.0.0.1:6419", v.GetString("serve.addr"))
	assert.NotEmpty(t, v.GetString("cache.path"))
}

func TestOptionsFromConfig(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	v.Set("convert.auto_newlines", true)
	v.Set("convert.empty_element_suffix", ">")
	v.Set("convert.strict_emphasis", false)

	opts := OptionsFromConfig(v)
	assert.True(t, opts.AutoHyperlink)
	assert.True(t, opts.AutoNewlines)
	assert.Equal(t, ">", opts.EmptyElementSuffix)
	assert.False(t, opts.StrictBoldItalic)
	assert.True(t, opts.LinkEmails)
}

func TestRenderDefaultTOML(t *testing.T) {
	out := RenderDefaultTOML()
	assert.Contains(t, out, "[convert]")
	assert.Contains(t, out, "auto_hyperlink = true")
	assert.Contains(t, out, "[serve]")
	assert.Contains(t, out, `addr = "127.0.0.1:6419"`)
	assert.Contains(t, out, "style_path")
}

func TestUpdateTOML(t *testing.T) {
	t.Run("unknown key commented out and missing keys appended", func(t *testing.T) {
		in := "old_key = 1\n[convert]\nauto_hyperlink = false\n"
		out, changed := UpdateTOML(in)
		assert.True(t, changed)
		assert.Contains(t, out, "# OUTDATED: option removed from config schema")
		assert.Contains(t, out, "# old_key = 1")
		assert.Contains(t, out, "auto_hyperlink = false")
		assert.Contains(t, out, "debounce_ms")
	})

	t.Run("complete file unchanged", func(t *testing.T) {
		full, changed := UpdateTOML(RenderDefaultTOML())
		_, again := UpdateTOML(full)
		assert.False(t, changed)
		assert.False(t, again)
	})
}
