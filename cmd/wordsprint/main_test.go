package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wordsprint/internal/config"
	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/wordlist"
)

func validConfig() model.Config {
	return model.Config{
		Lang:         defaultLang,
		Words:        defaultWords,
		Formula:      defaultFormula,
		PunctSet:     defaultPunctSet,
		MissedTop:    defaultMissedTop,
		MissedFactor: defaultMissedFactor,
		MissedWindow: defaultMissedWindow,
	}
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, validateConfig(validConfig()))

	cases := map[string]func(*model.Config){
		"words":   func(c *model.Config) { c.Words = 0 },
		"formula": func(c *model.Config) { c.Formula = "keystrokes" },
		"caps":    func(c *model.Config) { c.CapsPct = 1.5 },
		"punct":   func(c *model.Config) { c.PunctPct = -0.1 },
		"punct-set": func(c *model.Config) {
			c.PunctPct = 0.5
			c.PunctSet = ""
		},
		"missed-top":    func(c *model.Config) { c.MissedTop = -1 },
		"missed-factor": func(c *model.Config) { c.MissedFactor = -1 },
		"missed-window": func(c *model.Config) { c.MissedWindow = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "--"+name)
		})
	}
}

func TestDefaultConfigTemplateParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Words)

	uncommented := strings.NewReplacer("# lang =", "lang =", "# level =", "level =").Replace(defaultConfigTemplate())
	require.NoError(t, os.WriteFile(path, []byte(uncommented), 0o644))
	cfg, err = config.LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Lang)
	assert.Equal(t, defaultLang, *cfg.Practice.Lang)
	require.NotNil(t, cfg.Log.Level)
	assert.Equal(t, defaultLogLevel, *cfg.Log.Level)
}

func TestBuildStatsConfig(t *testing.T) {
	cfg, err := buildStatsConfig("en", "2026-01-02", 5, 3)
	require.NoError(t, err)
	require.NotNil(t, cfg.Since)
	assert.Equal(t, 2, cfg.Since.Day())
	assert.Equal(t, 5, cfg.Last)

	_, err = buildStatsConfig("", "01/02/2026", 0, 3)
	assert.Error(t, err)
	_, err = buildStatsConfig("", "", -1, 3)
	assert.Error(t, err)
	_, err = buildStatsConfig("", "", 0, 0)
	assert.Error(t, err)
}

func TestWordListLoadErrorKeepsCause(t *testing.T) {
	err := wordListLoadError("xx", "embedded:xx", wordlist.ErrUnknownLanguage)
	assert.True(t, errors.Is(err, wordlist.ErrUnknownLanguage))
	assert.Contains(t, err.Error(), "wordsprint langs")
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "wordsprint "+version+"\n", out.String())
}

func TestLangsCommandListsEmbedded(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"langs"})
	require.NoError(t, root.Execute())
	assert.Contains(t, strings.Split(strings.TrimSpace(out.String()), "\n"), "en")
}
