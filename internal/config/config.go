package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Transport names accepted by the client -transport flag
const (
	TransportLocal = "local"
	TransportHTTP  = "http"
	TransportDev   = "dev"
)

// ServerConfig holds settings for cmd/server
type ServerConfig struct {
	Addr         string
	JWTSecret    string // empty disables player tokens; everybody gets rank 0
	RedisAddr    string // empty keeps global chat in-process
	RedisChannel string
	SendBuffer   int // per-connection outbound queue length
	LogLevel     string
}

// ClientConfig holds settings for cmd/client
type ClientConfig struct {
	ServerURL    string
	Name         string
	Token        string
	Transport    string
	BridgeAddr   string
	Resource     string
	SettingsPath string
	LogFile      string
	LogLevel     string
}

// loadDotEnv reads an optional .env file into the process environment
func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on system environment variables")
		return
	}
	log.Debug().Msg("loaded .env file")
}

// LoadServer reads server settings from the environment. Flags applied by the
// caller override these values.
func LoadServer() *ServerConfig {
	loadDotEnv()

	return &ServerConfig{
		Addr:         getEnv("XCHAT_ADDR", ":8080"),
		JWTSecret:    getEnv("XCHAT_JWT_SECRET", ""),
		RedisAddr:    getEnv("XCHAT_REDIS_ADDR", ""),
		RedisChannel: getEnv("XCHAT_REDIS_CHANNEL", "xchat:global"),
		SendBuffer:   getEnvInt("XCHAT_SEND_BUFFER", 256),
		LogLevel:     getEnv("XCHAT_LOG_LEVEL", "info"),
	}
}

// LoadClient reads client settings from the environment
func LoadClient() *ClientConfig {
	loadDotEnv()

	return &ClientConfig{
		ServerURL:    getEnv("XCHAT_SERVER_URL", "ws://localhost:8080/ws"),
		Name:         getEnv("XCHAT_NAME", "Player1"),
		Token:        getEnv("XCHAT_TOKEN", ""),
		Transport:    getEnv("XCHAT_TRANSPORT", TransportLocal),
		BridgeAddr:   getEnv("XCHAT_BRIDGE_ADDR", "127.0.0.1:7777"),
		Resource:     getEnv("XCHAT_RESOURCE", "chat-oc"),
		SettingsPath: getEnv("XCHAT_SETTINGS_PATH", DefaultSettingsPath()),
		LogFile:      getEnv("XCHAT_LOG_FILE", "xchat-client.log"),
		LogLevel:     getEnv("XCHAT_LOG_LEVEL", "info"),
	}
}

// DefaultSettingsPath is where the chat panel keeps its local settings
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "xchat-settings.json"
	}
	return filepath.Join(dir, "xchat", "settings.json")
}

// ValidTransport reports whether name is a known client transport
func ValidTransport(name string) bool {
	switch name {
	case TransportLocal, TransportHTTP, TransportDev:
		return true
	}
	return false
}

func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("invalid integer, using default")
		return defaultValue
	}
	return n
}
