package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug          = "debug"
	ConfigDataPath       = "data-path"
	ConfigWordList       = "word-list"
	ConfigDBPath         = "db-path"
	ConfigNatsURL        = "nats-url"
	ConfigAgentTransport = "agent-transport"
	ConfigAgentSubject   = "agent-subject"
	ConfigAgentTimeout   = "agent-timeout"
	ConfigLambdaFunction = "lambda-function"
	ConfigPublish        = "publish-snapshots"

	ConfigGenaiProvider  = "genai-provider"
	ConfigOpenaiApiKey   = "openai-api-key"
	ConfigOpenaiModel    = "openai-model"
	ConfigGeminiApiKey   = "gemini-api-key"
	ConfigGeminiModel    = "gemini-model"
	ConfigDeepseekApiKey = "deepseek-api-key"
	ConfigDeepseekModel  = "deepseek-model"

	ConfigClueHistoryRetries = "clue-history-retries"
	ConfigClueBoardRetries   = "clue-board-retries"
	ConfigRejectHistoryClues = "reject-history-clues"
	ConfigRejectBoardClues   = "reject-board-clues"
	ConfigGuessDelay         = "guess-delay"
)

// Agent transports. The transport decides how an automated seat is reached.
const (
	TransportLLM    = "llm"
	TransportNats   = "nats"
	TransportLambda = "lambda"
	TransportRandom = "random"
)

var secretKeys = []string{ConfigOpenaiApiKey, ConfigGeminiApiKey, ConfigDeepseekApiKey}

type Config struct {
	*viper.Viper
}

// DefaultConfig returns a config with every default set. Environment
// variables prefixed with SPYMASTER_ override the defaults.
func DefaultConfig() *Config {
	c := &Config{viper.New()}
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigDataPath, "./data")
	c.SetDefault(ConfigWordList, "")
	c.SetDefault(ConfigDBPath, "")
	c.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	c.SetDefault(ConfigAgentTransport, TransportRandom)
	c.SetDefault(ConfigAgentSubject, "spymaster.agent")
	c.SetDefault(ConfigAgentTimeout, 60*time.Second)
	c.SetDefault(ConfigLambdaFunction, "spymaster-agent")
	c.SetDefault(ConfigPublish, false)

	c.SetDefault(ConfigGenaiProvider, "openai")
	c.SetDefault(ConfigOpenaiApiKey, "")
	c.SetDefault(ConfigOpenaiModel, "gpt-4.1")
	c.SetDefault(ConfigGeminiApiKey, "")
	c.SetDefault(ConfigGeminiModel, "gemini-2.5-flash")
	c.SetDefault(ConfigDeepseekApiKey, "")
	c.SetDefault(ConfigDeepseekModel, "deepseek-chat")

	c.SetDefault(ConfigClueHistoryRetries, 3)
	c.SetDefault(ConfigClueBoardRetries, 5)
	c.SetDefault(ConfigRejectHistoryClues, true)
	c.SetDefault(ConfigRejectBoardClues, true)
	c.SetDefault(ConfigGuessDelay, 1500*time.Millisecond)

	c.SetEnvPrefix("spymaster")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return c
}

// Load parses command-line flags on top of the defaults. Flags win over the
// environment.
func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("spymaster", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, c.GetBool(ConfigDebug), "debug logging on")
	fs.String(ConfigDataPath, c.GetString(ConfigDataPath), "directory holding word lists and the game database")
	fs.String(ConfigWordList, c.GetString(ConfigWordList), "word list file used by the board generator; empty uses the built-in list")
	fs.String(ConfigDBPath, c.GetString(ConfigDBPath), "sqlite database path; empty keeps games in memory")
	fs.String(ConfigNatsURL, c.GetString(ConfigNatsURL), "the NATS server URL")
	fs.String(ConfigAgentTransport, c.GetString(ConfigAgentTransport), "how automated seats are reached: llm, nats, lambda or random")
	fs.String(ConfigAgentSubject, c.GetString(ConfigAgentSubject), "NATS subject automated seats listen on")
	fs.Duration(ConfigAgentTimeout, c.GetDuration(ConfigAgentTimeout), "timeout for a single automated seat request")
	fs.String(ConfigLambdaFunction, c.GetString(ConfigLambdaFunction), "lambda function name for the lambda transport")
	fs.Bool(ConfigPublish, c.GetBool(ConfigPublish), "publish game snapshots on NATS after every change")
	fs.String(ConfigGenaiProvider, c.GetString(ConfigGenaiProvider), "LLM provider: openai, gemini or deepseek")
	fs.String(ConfigOpenaiModel, c.GetString(ConfigOpenaiModel), "OpenAI model")
	fs.String(ConfigGeminiModel, c.GetString(ConfigGeminiModel), "Gemini model")
	fs.String(ConfigDeepseekModel, c.GetString(ConfigDeepseekModel), "DeepSeek model")
	fs.Int(ConfigClueHistoryRetries, c.GetInt(ConfigClueHistoryRetries), "re-requests allowed for clues that repeat an earlier clue")
	fs.Int(ConfigClueBoardRetries, c.GetInt(ConfigClueBoardRetries), "re-requests allowed for clues that are a word on the board")
	fs.Bool(ConfigRejectHistoryClues, c.GetBool(ConfigRejectHistoryClues), "re-request automated clues that repeat an earlier clue")
	fs.Bool(ConfigRejectBoardClues, c.GetBool(ConfigRejectBoardClues), "re-request automated clues that are a word on the board")
	fs.Duration(ConfigGuessDelay, c.GetDuration(ConfigGuessDelay), "pause between automated reveals")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return c.BindPFlags(fs)
}

// AdjustRelativePaths makes the data path absolute relative to the
// executable directory, so binaries can be started from anywhere.
func (c *Config) AdjustRelativePaths(basepath string) {
	basepath = filepath.Dir(basepath)
	for _, key := range []string{ConfigDataPath, ConfigWordList, ConfigDBPath} {
		p := c.GetString(key)
		if strings.HasPrefix(p, "./") {
			c.Set(key, filepath.Join(basepath, p))
		}
	}
}

// SanitizedSettings returns all settings with API keys masked, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	for _, k := range secretKeys {
		if v, ok := settings[k].(string); ok && v != "" {
			settings[k] = "********"
		}
	}
	return settings
}

// DataFile returns a path inside the data directory.
func (c *Config) DataFile(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.GetString(ConfigDataPath), name)
}

// EnsureDataPath creates the data directory if it is missing.
func (c *Config) EnsureDataPath() error {
	return os.MkdirAll(c.GetString(ConfigDataPath), 0o755)
}
