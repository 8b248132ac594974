// Package config provides functionality for managing configuration options
// for the application using a config file, a .env file, environment
// variables, and command-line flags.
//
// Precedence, lowest first: defaults, config file, .env, process
// environment, explicitly set flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
)

const (
	// EnvProduction enables Secure cookies and SameSite=None.
	EnvProduction = "production"
	// EnvDevelopment is the default mode.
	EnvDevelopment = "development"
)

// Storage backends.
const (
	BackendMemory    = "memory"
	BackendPostgres  = "postgres"
	BackendBadger    = "badger"
	BackendFirestore = "firestore"
)

// Options holds the configuration values for the application. It is built
// once by Load and treated as read-only afterwards.
type Options struct {
	// Port is the listening address: a bare port ("8000") or host:port.
	Port string `koanf:"port" validate:"required"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment" validate:"oneof=development production"`

	// AuthKey is the shared admin secret checked on login.
	AuthKey string `koanf:"auth_key" validate:"required"`

	// JWTSecret signs session tokens.
	JWTSecret string `koanf:"jwt_secret" validate:"required"`

	// FrontendURL is the primary allowed CORS origin.
	FrontendURL string `koanf:"frontend_url"`

	// AllowedOrigins are additional CORS origins.
	AllowedOrigins []string `koanf:"allowed_origins"`

	Store    Store    `koanf:"store"`
	Firebase Firebase `koanf:"firebase"`
	Log      Log      `koanf:"log"`
	TLS      TLS      `koanf:"tls"`

	// Config is the path to the config file.
	Config string `koanf:"-"`
}

// Store selects and configures the persistence backend.
type Store struct {
	Backend     string `koanf:"backend" validate:"oneof=memory postgres badger firestore"`
	DatabaseDSN string `koanf:"database_dsn" validate:"required_if=Backend postgres"`
	// BadgerPath is the data directory; empty runs Badger in memory.
	BadgerPath string `koanf:"badger_path"`
}

// Firebase holds service-account credentials for the Firestore backend.
type Firebase struct {
	ProjectID   string `koanf:"project_id"`
	ClientEmail string `koanf:"client_email"`
	PrivateKey  string `koanf:"private_key"`
}

// Log configures the zap logger.
type Log struct {
	// Level is parsed by zap; unknown levels fail at logger startup.
	Level string `koanf:"level" validate:"required"`
	File  string `koanf:"file"`
}

// TLS enables HTTPS when both files are set.
type TLS struct {
	CertFile string `koanf:"cert_file" validate:"required_with=KeyFile"`
	KeyFile  string `koanf:"key_file" validate:"required_with=CertFile"`
}

// IsProduction reports whether production cookie attributes apply.
func (o *Options) IsProduction() bool {
	return o.Environment == EnvProduction
}

// Addr returns Port in the form expected by net/http.
func (o *Options) Addr() string {
	if strings.Contains(o.Port, ":") {
		return o.Port
	}
	return ":" + o.Port
}

// Origins returns FrontendURL followed by AllowedOrigins, without blanks.
// In development, when nothing is configured, the local Vite dev server
// origins are allowed.
func (o *Options) Origins() []string {
	var out []string
	for _, s := range append([]string{o.FrontendURL}, o.AllowedOrigins...) {
		s = strings.TrimRight(strings.TrimSpace(s), "/")
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 && !o.IsProduction() {
		out = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	}
	return out
}

// envKeys maps the recognised environment variables to config keys.
var envKeys = map[string]string{
	"PORT":                  "port",
	"NODE_ENV":              "environment",
	"AUTH_KEY":              "auth_key",
	"JWT_SECRET":            "jwt_secret",
	"FRONTEND_URL":          "frontend_url",
	"ALLOWED_ORIGINS":       "allowed_origins",
	"STORE_BACKEND":         "store.backend",
	"DATABASE_DSN":          "store.database_dsn",
	"BADGER_PATH":           "store.badger_path",
	"FIREBASE_PROJECT_ID":   "firebase.project_id",
	"FIREBASE_CLIENT_EMAIL": "firebase.client_email",
	"FIREBASE_PRIVATE_KEY":  "firebase.private_key",
	"LOG_LEVEL":             "log.level",
	"LOG_FILE":              "log.file",
	"TLS_CERT_FILE":         "tls.cert_file",
	"TLS_KEY_FILE":          "tls.key_file",
}

var validate = validator.New()

func defaults() *Options {
	return &Options{
		Port:        "8000",
		Environment: EnvDevelopment,
		Store:       Store{Backend: BackendMemory},
		Log:         Log{Level: "info"},
		Config:      "config.json",
	}
}

// Load builds Options from args (without the program name), the config
// file, the .env file in the working directory, and the environment.
func Load(args []string) (*Options, error) {
	options := defaults()

	fs := flag.NewFlagSet("flashcards", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var port, dsn, backend, level string
	fs.StringVar(&port, "a", options.Port, "run on port or ip:port")
	fs.StringVar(&dsn, "d", "", "db address")
	fs.StringVar(&backend, "s", options.Store.Backend, "storage backend: memory, postgres, badger, firestore")
	fs.StringVar(&level, "l", options.Log.Level, "log level")
	fs.StringVar(&options.Config, "config", options.Config, "path to config file")
	fs.StringVar(&options.Config, "c", options.Config, "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	k := koanf.New(".")

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			// YAML is a superset of JSON, so config.json parses as well.
			if err := k.Load(file.Provider(options.Config), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	err := k.Load(env.ProviderWithValue("", ".", func(name, value string) (string, interface{}) {
		key, ok := envKeys[name]
		if !ok || value == "" {
			return "", nil
		}
		if key == "allowed_origins" {
			return key, strings.Split(value, ",")
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Unmarshal("", options); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			options.Port = port
		case "d":
			options.Store.DatabaseDSN = dsn
		case "s":
			options.Store.Backend = backend
		case "l":
			options.Log.Level = level
		}
	})

	if err := validate.Struct(options); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if options.Store.Backend == BackendFirestore {
		if err := options.Firebase.check(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (f Firebase) check() error {
	var missing []string
	if f.ProjectID == "" {
		missing = append(missing, "FIREBASE_PROJECT_ID")
	}
	if f.ClientEmail == "" {
		missing = append(missing, "FIREBASE_CLIENT_EMAIL")
	}
	if f.PrivateKey == "" {
		missing = append(missing, "FIREBASE_PRIVATE_KEY")
	}
	if len(missing) > 0 {
		return errors.New("missing env var: " + strings.Join(missing, ", "))
	}
	return nil
}

// Parse loads the configuration from os.Args and the environment and exits
// the process if it is invalid.
func Parse() *Options {
	options, err := Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return options
}
