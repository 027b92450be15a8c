package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/riskibarqy/go-commitdraft/internal/prompt"
)

const (
	defaultProvider = ProviderOllama
	defaultEndpoint = "http://localhost:11434"
	defaultModel    = "qwen2.5-coder:1.5b"
	defaultMaxBytes = 32000
	defaultTimeout  = 40 * time.Second
	defaultLocale   = "en"
	defaultTemplate = "gerrit"
	envPrefix       = "COMMITGEN"
)

// Provider names a completion backend.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// ErrInvalid is wrapped by every validation error returned from Load.
var ErrInvalid = errors.New("invalid configuration")

// Options captures all user facing configuration, validated.
type Options struct {
	Provider    Provider
	Model       string
	ReviewModel string
	Endpoint    string
	APIKey      string
	MaxBytes    int
	Commit      bool
	Review      bool
	HookPath    string
	Timeout     time.Duration
	Verbose     bool

	Locale          string
	MaxLength       int
	Convention      prompt.Convention
	Strategy        prompt.Strategy
	TemplateVersion string
	Draft           string
}

// settings mirrors the keys accepted from flags, environment and config file.
type settings struct {
	Provider        string        `mapstructure:"provider"`
	Model           string        `mapstructure:"model"`
	ReviewModel     string        `mapstructure:"review-model"`
	Endpoint        string        `mapstructure:"endpoint"`
	APIKey          string        `mapstructure:"api-key"`
	MaxBytes        int           `mapstructure:"max-bytes"`
	Commit          bool          `mapstructure:"commit"`
	Review          bool          `mapstructure:"review"`
	Hook            string        `mapstructure:"hook"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Verbose         bool          `mapstructure:"verbose"`
	Locale          string        `mapstructure:"locale"`
	MaxLength       int           `mapstructure:"max-length"`
	Type            string        `mapstructure:"type"`
	Template        string        `mapstructure:"template"`
	TemplateVersion string        `mapstructure:"template-version"`
	Draft           string        `mapstructure:"draft"`
}

// legacyEnv keeps the environment variables of earlier releases working.
var legacyEnv = map[string]string{
	"model":        "OLLAMA_MODEL",
	"review-model": "OLLAMA_REVIEW_MODEL",
	"endpoint":     "OLLAMA_ENDPOINT",
	"api-key":      "OPENAI_API_KEY",
}

// RegisterFlags defines every configuration flag on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "YAML config file")
	fs.String("provider", string(defaultProvider), "Completion backend: ollama or openai")
	fs.String("model", defaultModel, "Model used for commit generation")
	fs.String("review-model", "", "Model used for code review (falls back to --model)")
	fs.String("endpoint", defaultEndpoint, "Backend base URL (for openai, empty means the public API)")
	fs.String("api-key", "", "API key for the openai provider")
	fs.Int("max-bytes", defaultMaxBytes, "Maximum diff bytes to send to the model")
	fs.Bool("commit", true, "Run `git commit` with the generated message")
	fs.Bool("review", true, "Run an AI review before generating the commit message")
	fs.String("hook", "", "When set, write the message into the given hook file")
	fs.Duration("timeout", defaultTimeout, "Total timeout for the command")
	fs.BoolP("verbose", "v", false, "Enable debug logging")

	fs.String("locale", defaultLocale, "Language tag of the commit message, e.g. en or pt-BR")
	fs.Int("max-length", prompt.DefaultMaxLength, "Subject line length the model is asked to stay under")
	fs.StringP("type", "t", "", "Commit convention: empty for plain, or conventional")
	fs.String("template", defaultTemplate, "Prompt template strategy: gerrit (structured) or stepwise (freeform)")
	fs.String("template-version", "", "Semver constraint the template text must satisfy, e.g. ^2")
	fs.StringP("draft", "m", "", "Draft note to write the message from (defaults to the staged diff)")
}

// New returns a viper instance reading fs, COMMITGEN_* variables and, when
// --config is set, a YAML file.
func New(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		current := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if err := v.BindEnv(key, current, legacy); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

// Load decodes and validates the options held by v.
func Load(v *viper.Viper) (Options, error) {
	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return Options{}, fmt.Errorf("decode config: %w", err)
	}

	provider := Provider(strings.ToLower(strings.TrimSpace(s.Provider)))
	if provider != ProviderOllama && provider != ProviderOpenAI {
		return Options{}, fmt.Errorf("%w: unknown provider %q", ErrInvalid, s.Provider)
	}
	if s.MaxLength <= 0 {
		return Options{}, fmt.Errorf("%w: max-length %d: %w", ErrInvalid, s.MaxLength, prompt.ErrInvalidMaxLength)
	}
	if s.MaxBytes <= 0 {
		return Options{}, fmt.Errorf("%w: max-bytes must be positive, got %d", ErrInvalid, s.MaxBytes)
	}
	if s.Timeout <= 0 {
		return Options{}, fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalid, s.Timeout)
	}

	convention, err := prompt.ParseConvention(s.Type)
	if err != nil {
		return Options{}, fmt.Errorf("%w: type: %w", ErrInvalid, err)
	}
	strategy, err := prompt.ParseStrategy(s.Template)
	if err != nil {
		return Options{}, fmt.Errorf("%w: template: %w", ErrInvalid, err)
	}

	model := stringsFallback(s.Model, defaultModel)
	endpoint := strings.TrimSpace(s.Endpoint)
	if provider == ProviderOllama {
		endpoint = stringsFallback(endpoint, defaultEndpoint)
	} else if endpoint == defaultEndpoint {
		endpoint = ""
	}

	return Options{
		Provider:        provider,
		Model:           model,
		ReviewModel:     stringsFallback(s.ReviewModel, model),
		Endpoint:        endpoint,
		APIKey:          strings.TrimSpace(s.APIKey),
		MaxBytes:        s.MaxBytes,
		Commit:          s.Commit,
		Review:          s.Review,
		HookPath:        strings.TrimSpace(s.Hook),
		Timeout:         s.Timeout,
		Verbose:         s.Verbose,
		Locale:          strings.TrimSpace(s.Locale),
		MaxLength:       s.MaxLength,
		Convention:      convention,
		Strategy:        strategy,
		TemplateVersion: strings.TrimSpace(s.TemplateVersion),
		Draft:           s.Draft,
	}, nil
}

func stringsFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
