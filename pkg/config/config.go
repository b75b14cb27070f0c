// Package config carga la configuración de legaldocs: valores por defecto,
// luego un archivo YAML y por último variables de entorno.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FileName es el archivo que se busca en el directorio actual y en ~/.config/legaldocs.
	FileName = "legaldocs.yaml"
	// UserConfigDir es el directorio de configuración del usuario.
	UserConfigDir = ".config/legaldocs"
)

// Config es la configuración completa.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Files   FilesConfig   `yaml:"files"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
	Preview PreviewConfig `yaml:"preview"`
}

// APIConfig configura el cliente del backend.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token,omitempty"`
	// UserID es el usuario de la sesión guardada; las transiciones se hacen en su nombre.
	UserID    int64         `yaml:"user_id,omitempty"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"`
	Burst     int           `yaml:"burst"`
}

// StorageConfig elige dónde se guarda la copia local de documentos, usuarios y etiquetas.
type StorageConfig struct {
	// Backend es memory, sqlite o dynamodb.
	Backend        string `yaml:"backend"`
	SQLitePath     string `yaml:"sqlite_path"`
	DocumentsTable string `yaml:"documents_table"`
	UsersTable     string `yaml:"users_table"`
	TagsTable      string `yaml:"tags_table"`
	Region         string `yaml:"region,omitempty"`
	Local          bool   `yaml:"local"`
}

// FilesConfig elige dónde quedan los archivos descargados y exportados.
type FilesConfig struct {
	// Backend es local o s3.
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
	Bucket  string `yaml:"bucket,omitempty"`
}

type SessionConfig struct {
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Path    string `yaml:"path,omitempty"`
	Console bool   `yaml:"console"`
}

type PreviewConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig devuelve la configuración por defecto.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8000",
			Timeout:   30 * time.Second,
			RateLimit: 10,
			Burst:     20,
		},
		Storage: StorageConfig{
			Backend:        "memory",
			SQLitePath:     "legaldocs.db",
			DocumentsTable: "dynamic_documents",
			UsersTable:     "users",
			TagsTable:      "document_tags",
		},
		Files: FilesConfig{
			Backend: "local",
			Dir:     "downloads",
		},
		Session: SessionConfig{IdleTimeout: 15 * time.Minute},
		Log:     LogConfig{Level: "info", Console: true},
		Preview: PreviewConfig{Addr: "127.0.0.1:8765"},
	}
}

// Validate revisa que los valores sean utilizables.
func (c *Config) Validate() error {
	var errs []error
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	switch c.Storage.Backend {
	case "memory", "sqlite", "dynamodb":
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q is not one of memory, sqlite, dynamodb", c.Storage.Backend))
	}
	if c.Storage.Backend == "sqlite" && c.Storage.SQLitePath == "" {
		errs = append(errs, errors.New("storage.sqlite_path is required for the sqlite backend"))
	}
	switch c.Files.Backend {
	case "local":
		if c.Files.Dir == "" {
			errs = append(errs, errors.New("files.dir is required for the local backend"))
		}
	case "s3":
		if c.Files.Bucket == "" {
			errs = append(errs, errors.New("files.bucket is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("files.backend %q is not one of local, s3", c.Files.Backend))
	}
	if c.Session.IdleTimeout <= 0 {
		errs = append(errs, errors.New("session.idle_timeout must be positive"))
	}
	return errors.Join(errs...)
}

// LoadFromFile lee el YAML de path sobre los valores por defecto.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Los campos ausentes en el archivo conservan el valor que ya tenía c.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// SaveToFile escribe la configuración como YAML, creando el directorio si falta.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// SaveSession escribe api.token y api.user_id en el archivo de path sin tocar el resto
// de su contenido. Con token vacío borra ambas claves; si el archivo no existe no hay
// nada que borrar.
func SaveSession(path, token string, userID int64) error {
	doc := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if token == "" {
			return nil
		}
	case err != nil:
		return fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	}

	api, _ := doc["api"].(map[string]any)
	if api == nil {
		api = map[string]any{}
	}
	if token == "" {
		delete(api, "token")
		delete(api, "user_id")
	} else {
		api["token"] = token
		api["user_id"] = userID
	}
	if len(api) == 0 {
		delete(doc, "api")
	} else {
		doc["api"] = api
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Load arma la configuración: valores por defecto, el archivo explícito (o el primero
// que exista entre ./legaldocs.yaml y ~/.config/legaldocs/legaldocs.yaml) y el entorno.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfig()
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func findConfig() string {
	candidates := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, UserConfigDir, FileName))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// UserConfigPath devuelve ~/.config/legaldocs/legaldocs.yaml.
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, UserConfigDir, FileName), nil
}

// ApplyEnv aplica las variables de entorno que lookup encuentre.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("LEGALDOCS_API_URL", &c.API.BaseURL)
	str("LEGALDOCS_TOKEN", &c.API.Token)
	str("LOG_LEVEL", &c.Log.Level)
	str("LEGALDOCS_LOG_PATH", &c.Log.Path)
	str("LEGALDOCS_STORAGE", &c.Storage.Backend)
	str("LEGALDOCS_SQLITE_PATH", &c.Storage.SQLitePath)
	str("AWS_REGION", &c.Storage.Region)
	str("LEGALDOCS_FILES", &c.Files.Backend)
	str("LEGALDOCS_FILES_DIR", &c.Files.Dir)
	str("LEGALDOCS_S3_BUCKET", &c.Files.Bucket)
	str("LEGALDOCS_PREVIEW_ADDR", &c.Preview.Addr)

	if v, ok := lookup("LEGALDOCS_USER_ID"); ok && v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid LEGALDOCS_USER_ID %q: %w", v, err)
		}
		c.API.UserID = id
	}
	if v, ok := lookup("AWS_SAM_LOCAL"); ok && v != "" {
		local, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid AWS_SAM_LOCAL %q: %w", v, err)
		}
		c.Storage.Local = local
	}
	if v, ok := lookup("LEGALDOCS_IDLE_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid LEGALDOCS_IDLE_TIMEOUT %q: %w", v, err)
		}
		c.Session.IdleTimeout = d
	}
	return nil
}
