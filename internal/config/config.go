// Package config resolves whittle's settings from flags, the environment and
// .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/whittle/internal/llm"
	"github.com/alexanderramin/whittle/internal/solver"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	ErrMissingCredential = errors.New("API key not found")
	ErrInvalidCaseDir    = errors.New("invalid case directory")
)

// Flag names shared by the CLI and Load.
const (
	FlagSolver      = "solver"
	FlagListSolvers = "list-solvers"
	FlagAPIKey      = "api-key"
	FlagProvider    = "provider"
	FlagModel       = "model"
	FlagVerbose     = "verbose"
	FlagNoJournal   = "no-journal"
	FlagPluginsDir  = "plugins-dir"
)

// Keys match the environment variable names, lower-cased, so the same key
// resolves from the process environment and from .env files.
const (
	keyProvider    = "whittle_llm_provider"
	keyModel       = "whittle_llm_model"
	keyEndpoint    = "whittle_llm_endpoint"
	keyTemperature = "whittle_llm_temperature"
	keyTimeoutMs   = "whittle_llm_timeout_ms"
	keyLogCalls    = "whittle_llm_log_calls"
	keyPluginsDir  = "whittle_plugins_dir"
	keyOpenAIKey   = "openai_api_key"
	keyGeminiKey   = "gemini_api_key"
	keyGoogleKey   = "google_api_key"
)

// Settings is the resolved configuration of one run.
type Settings struct {
	Solver      string
	ListSolvers bool
	Verbose     bool
	NoJournal   bool
	PluginsDir  string
	LLM         llm.Config
}

// RegisterFlags defines whittle's flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagSolver, "s", solver.OpenFOAMID, "CFD solver to use (see --list-solvers)")
	fs.BoolP(FlagListSolvers, "l", false, "List available solver plugins")
	fs.StringP(FlagAPIKey, "k", "", "LLM API key. Also read from OPENAI_API_KEY / GEMINI_API_KEY or a .env file")
	fs.String(FlagProvider, string(llm.ProviderOpenAI), "LLM provider: openai, ollama or gemini")
	fs.String(FlagModel, "", "LLM model (defaults per provider)")
	fs.BoolP(FlagVerbose, "v", false, "Debug logging to <case>/.whittle/whittle.log")
	fs.Bool(FlagNoJournal, false, "Do not record the session journal")
	fs.String(FlagPluginsDir, "", "Directory of YAML solver definitions (default ~/.whittle/solvers)")
}

// Paths locates the .env files. Empty fields are looked up from the OS.
type Paths struct {
	WorkDir string
	HomeDir string
}

// Load resolves settings with the precedence flag, environment, .env in the
// working directory, .env in the home directory, default.
func Load(fs *pflag.FlagSet, paths Paths) (*Settings, error) {
	if paths.WorkDir == "" {
		paths.WorkDir, _ = os.Getwd()
	}
	if paths.HomeDir == "" {
		paths.HomeDir, _ = os.UserHomeDir()
	}

	v := viper.New()
	if err := readDotenv(v, paths); err != nil {
		return nil, err
	}
	for _, key := range []string{
		keyProvider, keyModel, keyEndpoint, keyTemperature, keyTimeoutMs,
		keyLogCalls, keyPluginsDir, keyOpenAIKey, keyGeminiKey, keyGoogleKey,
	} {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}
	for key, flag := range map[string]string{
		keyProvider:   FlagProvider,
		keyModel:      FlagModel,
		keyPluginsDir: FlagPluginsDir,
	} {
		if f := fs.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding --%s: %w", flag, err)
			}
		}
	}

	provider := llm.Provider(strings.ToLower(v.GetString(keyProvider)))
	if provider == "" {
		provider = llm.ProviderOpenAI
	}
	cfg := llm.DefaultConfig(provider)
	if model := v.GetString(keyModel); model != "" {
		cfg.Model = model
	}
	if endpoint := v.GetString(keyEndpoint); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if v.IsSet(keyTemperature) {
		cfg.Temperature = v.GetFloat64(keyTemperature)
	}
	if v.IsSet(keyTimeoutMs) {
		cfg.TimeoutMs = v.GetInt(keyTimeoutMs)
	}
	cfg.LogCalls = v.GetBool(keyLogCalls)
	cfg.APIKey = resolveAPIKey(v, fs, provider)

	settings := &Settings{
		Solver:      stringFlag(fs, FlagSolver, solver.OpenFOAMID),
		ListSolvers: boolFlag(fs, FlagListSolvers),
		Verbose:     boolFlag(fs, FlagVerbose),
		NoJournal:   boolFlag(fs, FlagNoJournal),
		PluginsDir:  v.GetString(keyPluginsDir),
		LLM:         cfg,
	}
	if settings.PluginsDir == "" && paths.HomeDir != "" {
		settings.PluginsDir = filepath.Join(paths.HomeDir, ".whittle", "solvers")
	}
	return settings, nil
}

// Validate checks the LLM configuration, turning a missing key into a
// credential error with remediation steps.
func (s *Settings) Validate() error {
	err := s.LLM.Validate()
	if errors.Is(err, llm.ErrMissingAPIKey) {
		return &CredentialError{Provider: s.LLM.Provider}
	}
	return err
}

// CredentialError reports a missing API key and how to supply one.
type CredentialError struct {
	Provider llm.Provider
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("%s %s", e.Provider, ErrMissingCredential)
}

func (e *CredentialError) Unwrap() error {
	return ErrMissingCredential
}

// Remediation lists the ways to provide the key.
func (e *CredentialError) Remediation() []string {
	env := "OPENAI_API_KEY"
	if e.Provider == llm.ProviderGemini {
		env = "GEMINI_API_KEY"
	}
	return []string{
		"--api-key command line option",
		env + " environment variable",
		".env file in current directory",
		".env file in home directory",
	}
}

// ValidateCaseDir checks that path exists and is a directory.
func ValidateCaseDir(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: case directory is required", ErrInvalidCaseDir)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: directory %s does not exist", ErrInvalidCaseDir, path)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidCaseDir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCaseDir, err)
	}
	return abs, nil
}

func resolveAPIKey(v *viper.Viper, fs *pflag.FlagSet, provider llm.Provider) string {
	if f := fs.Lookup(FlagAPIKey); f != nil && f.Changed {
		return f.Value.String()
	}
	switch provider {
	case llm.ProviderGemini:
		if key := v.GetString(keyGeminiKey); key != "" {
			return key
		}
		return v.GetString(keyGoogleKey)
	case llm.ProviderOpenAI:
		return v.GetString(keyOpenAIKey)
	default:
		return ""
	}
}

// readDotenv loads the home .env first and merges the working directory's
// over it.
func readDotenv(v *viper.Viper, paths Paths) error {
	v.SetConfigType("env")
	seen := map[string]bool{}
	for _, dir := range []string{paths.HomeDir, paths.WorkDir} {
		if dir == "" {
			continue
		}
		file := filepath.Join(dir, ".env")
		if seen[file] {
			continue
		}
		seen[file] = true
		if info, err := os.Stat(file); err != nil || info.IsDir() {
			continue
		}
		v.SetConfigFile(file)
		if err := v.MergeInConfig(); err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}
	}
	return nil
}

func stringFlag(fs *pflag.FlagSet, name, fallback string) string {
	if f := fs.Lookup(name); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return fallback
}

func boolFlag(fs *pflag.FlagSet, name string) bool {
	if f := fs.Lookup(name); f != nil {
		return f.Value.String() == "true"
	}
	return false
}
