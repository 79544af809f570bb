package app

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go429/internal/arinc429"
)

const storeContents = `[vars]
"L:A32NX_ADIRS_IR_1_LATITUDE" = 2441888944
"L:A32NX_ADIRS_IR_1_LONGITUDE" = 4052501680
"L:A32NX_BAD_PARITY" = 294405296
`

// TestDefaultConfig tests the default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultStorePath, cfg.StorePath)
	assert.Equal(t, DefaultLogDir, cfg.LogDir)
	assert.True(t, cfg.LogRotateUTC)
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, 30, cfg.KeepDays)
	assert.Empty(t, cfg.Watches)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go429.toml")
	contents := `store = "/var/lib/go429/vars.toml"
interval = "250ms"
utc = false
verbose = true

[[watch]]
name = "L:A32NX_ADIRS_IR_1_LATITUDE"
family = "bnr"

[[watch]]
name = "L:A32NX_FWC_DISCRETE_WORD_126"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg := DefaultConfig()
	require.NoError(t, LoadConfig(path, &cfg))

	assert.Equal(t, "/var/lib/go429/vars.toml", cfg.StorePath)
	assert.Equal(t, DefaultLogDir, cfg.LogDir, "undefined keys keep defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.False(t, cfg.LogRotateUTC)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, DefaultKeepDays, cfg.KeepDays)
	assert.Equal(t, []Watch{
		{Name: "L:A32NX_ADIRS_IR_1_LATITUDE", Family: arinc429.FamilyBNR},
		{Name: "L:A32NX_FWC_DISCRETE_WORD_126", Family: arinc429.FamilyDiscrete},
	}, cfg.Watches)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{name: "Bad interval", contents: `interval = "soon"`},
		{name: "Bad family", contents: "[[watch]]\nname = \"L:X\"\nfamily = \"hex\"\n"},
		{name: "Missing name", contents: "[[watch]]\nfamily = \"bnr\"\n"},
		{name: "Invalid toml", contents: "store = "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "go429.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.contents), 0644))

			cfg := DefaultConfig()
			assert.Error(t, LoadConfig(path, &cfg))
		})
	}

	cfg := DefaultConfig()
	assert.Error(t, LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), &cfg))
}

func TestParseWatch(t *testing.T) {
	tests := []struct {
		in      string
		want    Watch
		wantErr bool
	}{
		{in: "L:A", want: Watch{Name: "L:A", Family: arinc429.FamilyDiscrete}},
		{in: "L:A=bcd", want: Watch{Name: "L:A", Family: arinc429.FamilyBCD}},
		{in: " L:A = BNR", want: Watch{Name: "L:A", Family: arinc429.FamilyBNR}},
		{in: "=bnr", wantErr: true},
		{in: "L:A=octal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWatch(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.Watches = []Watch{{Name: "L:A"}}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "No store", mutate: func(c *Config) { c.StorePath = "" }},
		{name: "No log dir", mutate: func(c *Config) { c.LogDir = "" }},
		{name: "Zero interval", mutate: func(c *Config) { c.Interval = 0 }},
		{name: "No watches", mutate: func(c *Config) { c.Watches = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// TestShowVersion tests the version display functionality
func TestShowVersion(t *testing.T) {
	var buf bytes.Buffer
	ShowVersion(&buf)
	assert.Contains(t, buf.String(), "Version: "+Version)
	assert.Contains(t, buf.String(), "Git Commit: ")
}

func newTestApplication(t *testing.T, watches []Watch) (*Application, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	storePath := filepath.Join(dir, "vars.toml")
	require.NoError(t, os.WriteFile(storePath, []byte(storeContents), 0644))

	cfg := DefaultConfig()
	cfg.StorePath = storePath
	cfg.LogDir = filepath.Join(dir, "logs")
	cfg.Interval = 10 * time.Millisecond
	cfg.Watches = watches

	app := NewApplication(cfg)
	app.logger.SetOutput(io.Discard)
	var stdout bytes.Buffer
	app.stdout = &stdout

	return app, &stdout
}

// TestNewApplication tests the application constructor
func TestNewApplication(t *testing.T) {
	for _, verbose := range []bool{true, false} {
		cfg := DefaultConfig()
		cfg.Verbose = verbose

		app := NewApplication(cfg)
		require.NotNil(t, app)
		assert.NotNil(t, app.logger)
		assert.Equal(t, verbose, app.logger.IsLevelEnabled(logrus.DebugLevel))
	}
}

func TestApplication_SampleOnce(t *testing.T) {
	app, stdout := newTestApplication(t, []Watch{
		{Name: "L:A32NX_ADIRS_IR_1_LATITUDE", Family: arinc429.FamilyBNR},
		{Name: "L:A32NX_ADIRS_IR_1_LONGITUDE", Family: arinc429.FamilyBNR},
		{Name: "L:A32NX_BAD_PARITY", Family: arinc429.FamilyDiscrete},
		{Name: "L:UNSET", Family: arinc429.FamilyDiscrete},
	})
	require.NoError(t, app.initializeComponents())
	defer app.shutdown()

	app.sampleOnce(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	samples, parityErrors, abnormal, readErrors := app.GetStats()
	assert.Equal(t, uint64(4), samples)
	assert.Equal(t, uint64(2), parityErrors, "corrupted word and the unset zero word")
	assert.Equal(t, uint64(1), abnormal, "latitude reports FailureWarning under BNR")
	assert.Equal(t, uint64(0), readErrors)

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "A429,2024/03/01,12:00:00.000,L:A32NX_ADIRS_IR_1_LONGITUDE,4052501680,260,0,287505,11,NormalOperation,1", lines[1])

	logged, err := os.ReadFile(app.logRotator.GetCurrentLogFile())
	require.NoError(t, err)
	assert.Equal(t, stdout.String(), string(logged))
}

func TestApplication_SampleOnceBrokenStore(t *testing.T) {
	app, stdout := newTestApplication(t, []Watch{{Name: "L:A"}})
	require.NoError(t, app.initializeComponents())
	defer app.shutdown()

	require.NoError(t, os.WriteFile(app.config.StorePath, []byte("[vars\n"), 0644))
	app.sampleOnce(time.Now())

	samples, _, _, readErrors := app.GetStats()
	assert.Equal(t, uint64(0), samples)
	assert.Equal(t, uint64(1), readErrors)
	assert.Empty(t, stdout.String())
}

func TestApplication_StartInvalidConfig(t *testing.T) {
	app := NewApplication(DefaultConfig())
	app.logger.SetOutput(io.Discard)

	err := app.Start()
	assert.ErrorContains(t, err, "no variables to watch")
}

func TestApplication_StartStop(t *testing.T) {
	app, stdout := newTestApplication(t, []Watch{
		{Name: "L:A32NX_ADIRS_IR_1_LONGITUDE", Family: arinc429.FamilyBNR},
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	require.Eventually(t, func() bool {
		samples, _, _, _ := app.GetStats()
		return samples >= 2
	}, 2*time.Second, 5*time.Millisecond)

	app.Stop()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(7 * time.Second):
		t.Fatal("application did not stop")
	}

	assert.Contains(t, stdout.String(), "L:A32NX_ADIRS_IR_1_LONGITUDE")
}
