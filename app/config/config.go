package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// MemoryFileEnv overrides storage.file without touching config.yaml.
const MemoryFileEnv = "MEMORY_FILE_PATH"

const defaultMemoryFile = "memory.json"

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Config struct {
	Log     Log     `yaml:"log"`
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

type Server struct {
	// Transport for tool calls: stdio speaks MCP over stdin/stdout,
	// http serves the streamable endpoint over HTTP
	Transport string `yaml:"transport" example:"stdio" validate:"required,oneof=stdio http"`
	// Listen address for the http transport
	Addr string `yaml:"addr" example:":3000" validate:"required"`
	// Comma-separated list of allowed CORS origins for the http transport
	AllowedOrigins string `yaml:"allowed_origins" example:"*" validate:"required"`
}

type Storage struct {
	// Path to the knowledge graph file; a bare filename is resolved
	// next to the executable, not the working directory
	File string `yaml:"file" example:"memory.json" validate:"required"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile("config.yaml")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	return parse(data)
}

func parse(data []byte) (*Config, error) {
	var result Config

	if data != nil {
		if err := yaml.Unmarshal(data, &result); err != nil {
			return nil, oops.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if path := os.Getenv(MemoryFileEnv); path != "" {
		result.Storage.File = path
	}

	if result.Server.Transport == "" {
		result.Server.Transport = TransportStdio
	}
	if result.Server.Addr == "" {
		result.Server.Addr = ":3000"
	}
	if result.Server.AllowedOrigins == "" {
		result.Server.AllowedOrigins = "*"
	}
	if result.Storage.File == "" {
		result.Storage.File = defaultMemoryFile
	}

	resolved, err := resolveStoragePath(result.Storage.File)
	if err != nil {
		return nil, oops.Errorf("failed to resolve storage path: %w", err)
	}
	result.Storage.File = resolved

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

// resolveStoragePath anchors relative paths at the executable's directory
// so the graph file lands beside the binary regardless of where the
// process was started from.
func resolveStoragePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", err
	}

	return filepath.Join(filepath.Dir(exe), path), nil
}
