// Package config provides configuration management for the paddock simulator.
package config

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	partialConfigPath     = "testdata/partial_config.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
	expectedNoErrorMsg    = "expected no error, got %v"
	paddockName           = "paddock"
	testAppName           = "test-app"
	testDBPassword        = "TEST_DB_PASSWORD"
	expandedSecretValue   = "expanded_secret_value"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != paddockName {
		t.Errorf("expected app name '%s', got '%s'", paddockName, cfg.App.Name)
	}
	if cfg.Simulation.Track.Length != 400 {
		t.Errorf("expected track length 400, got %v", cfg.Simulation.Track.Length)
	}
	if cfg.Simulation.Track.SegmentCount() != 8 {
		t.Errorf("expected 8 segments, got %d", cfg.Simulation.Track.SegmentCount())
	}
	assert.InDelta(t, 1.15, cfg.Simulation.Injury.RaceTypeMultiplier("Championship"), 1e-9)
	assert.InDelta(t, 1.0, cfg.Simulation.Injury.RaceTypeMultiplier("Exhibition"), 1e-9)
	assert.Len(t, cfg.Simulation.Terrain.Modifiers, 5)
	assert.InDelta(t, 500.0, cfg.Simulation.Championship.OrganiserPrize, 1e-9)
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("PADDOCK_APP_NAME", testAppName)

	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	assert.Equal(t, testAppName, cfg.App.Name)
}

// TestLoadConfigExpandsPlaceholders tests ${VAR} expansion in the YAML file
func TestLoadConfigExpandsPlaceholders(t *testing.T) {
	t.Setenv(testDBPassword, expandedSecretValue)

	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	assert.Equal(t, expandedSecretValue, cfg.Database.Password)
}

func TestLoadWithDefaultsOverlaysPartialFile(t *testing.T) {
	cfg, err := LoadWithDefaults(partialConfigPath)
	require.NoError(t, err)

	assert.Equal(t, "paddock-partial", cfg.App.Name)
	assert.Equal(t, 800.0, cfg.Simulation.Track.Length)
	assert.Equal(t, 50.0, cfg.Simulation.Track.SegmentLength)
	assert.InDelta(t, 0.05, cfg.Simulation.Betting.HouseEdge, 1e-9)
	assert.Equal(t, []float64{0.35, 0.25, 0.20, 0.12, 0.08}, cfg.Simulation.Form.Weights)
	require.NoError(t, Validate(cfg))
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	require.NoError(t, Validate(cfg))
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
}

func TestValidateDefaults(t *testing.T) {
	require.NoError(t, Validate(Default()))
	sim := DefaultSimulation()
	require.NoError(t, ValidateSimulation(&sim))
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantMsg string
	}{
		{
			name:    "invalid environment",
			mutate:  func(cfg *Config) { cfg.App.Environment = "invalid" },
			wantMsg: "Environment",
		},
		{
			name:    "non-positive track length",
			mutate:  func(cfg *Config) { cfg.Simulation.Track.Length = 0 },
			wantMsg: "Length",
		},
		{
			name:    "non-positive segment length",
			mutate:  func(cfg *Config) { cfg.Simulation.Track.SegmentLength = -5 },
			wantMsg: "SegmentLength",
		},
		{
			name:    "segment longer than track",
			mutate:  func(cfg *Config) { cfg.Simulation.Track.SegmentLength = 500 },
			wantMsg: "segment_length",
		},
		{
			name:    "form weights not summing to one",
			mutate:  func(cfg *Config) { cfg.Simulation.Form.Weights = []float64{0.5, 0.25, 0.20, 0.12, 0.08} },
			wantMsg: "sum to 1.0",
		},
		{
			name: "form weights length mismatch",
			mutate: func(cfg *Config) {
				cfg.Simulation.Form.Weights = []float64{0.6, 0.4}
			},
			wantMsg: "form depth",
		},
		{
			name:    "unknown market",
			mutate:  func(cfg *Config) { cfg.Simulation.Betting.Markets = []string{"WIN", "TRIFECTA"} },
			wantMsg: "Markets",
		},
		{
			name:    "unknown patch terrain",
			mutate:  func(cfg *Config) { cfg.Simulation.Terrain.PatchTypes = []string{"snow"} },
			wantMsg: "snow",
		},
		{
			name:    "inverted severity range",
			mutate:  func(cfg *Config) { cfg.Simulation.Injury.SeverityMax = 0 },
			wantMsg: "SeverityMax",
		},
		{
			name:    "negative organiser prize",
			mutate:  func(cfg *Config) { cfg.Simulation.Championship.OrganiserPrize = -1 },
			wantMsg: "OrganiserPrize",
		},
		{
			name:    "unknown storage driver",
			mutate:  func(cfg *Config) { cfg.Storage.Driver = "mysql" },
			wantMsg: "Driver",
		},
		{
			name: "postgres without host",
			mutate: func(cfg *Config) {
				cfg.Storage.Driver = "postgres"
				cfg.Database = DatabaseConfig{}
			},
			wantMsg: "postgres storage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantMsg), "error %q should mention %q", err.Error(), tt.wantMsg)
		})
	}
}

func TestSegmentCountRoundsUp(t *testing.T) {
	assert.Equal(t, 4, TrackConfig{Length: 200, SegmentLength: 50}.SegmentCount())
	assert.Equal(t, 5, TrackConfig{Length: 210, SegmentLength: 50}.SegmentCount())
	assert.Equal(t, 1, TrackConfig{Length: 10, SegmentLength: 50}.SegmentCount())
}

type fakeSecretsClient struct {
	output *secretsmanager.GetSecretValueOutput
	err    error
}

func (f fakeSecretsClient) GetSecretValue(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	return f.output, f.err
}

func TestFetchSecretsOverlaysDatabaseCredentials(t *testing.T) {
	client := fakeSecretsClient{output: &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"database_password":"s3cret","database_user":"racer"}`),
	}}

	secrets, err := fetchSecrets(context.Background(), client, "paddock/db")
	require.NoError(t, err)

	cfg := Default()
	overlaySecretsOnConfig(cfg, secrets)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "racer", cfg.Database.User)
}

func TestParseSecretDataEmpty(t *testing.T) {
	_, err := parseSecretData(&secretsmanager.GetSecretValueOutput{})
	assert.ErrorIs(t, err, errNoSecretDataFound)
}
