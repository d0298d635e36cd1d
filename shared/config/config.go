package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config armazena as configurações locais do TabletopVision.
type Config struct {
	// Janela
	WindowWidth  int32  `json:"window_width" envconfig:"WINDOW_WIDTH"`
	WindowHeight int32  `json:"window_height" envconfig:"WINDOW_HEIGHT"`
	WindowTitle  string `json:"window_title" ignored:"true"`
	Fullscreen   bool   `json:"fullscreen" envconfig:"FULLSCREEN"`
	TargetFPS    int32  `json:"target_fps" envconfig:"TARGET_FPS"`

	// Servidor de mesa (websocket)
	ServerURL string `json:"server_url" envconfig:"SERVER_URL"`
	UserID    string `json:"user_id" envconfig:"USER_ID"`

	// Assets
	AssetTimeoutSec int     `json:"asset_timeout_sec" envconfig:"ASSET_TIMEOUT_SEC"`
	TextureTTLMin   int     `json:"texture_ttl_min" envconfig:"TEXTURE_TTL_MIN"`
	MaxAnisotropy   float32 `json:"max_anisotropy"`

	// Renderização
	BlurEnabled  bool    `json:"blur_enabled"`
	BlurStrength float32 `json:"blur_strength"`

	// Banco local (cache de cena + settings persistidos)
	DataDir string `json:"data_dir" envconfig:"DATA_DIR"`

	// Debug
	ShowDebugInfo bool `json:"show_debug_info"`
	ShowGrid      bool `json:"show_grid"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "TabletopVision",
		Fullscreen:   false,
		TargetFPS:    60,

		ServerURL: "ws://127.0.0.1:30000/ws",
		UserID:    "",

		AssetTimeoutSec: 15,
		TextureTTLMin:   15,
		MaxAnisotropy:   4.0,

		BlurEnabled:  true,
		BlurStrength: 8.0,

		DataDir: "data",

		ShowDebugInfo: true,
		ShowGrid:      false,
	}
}

// configPath retorna o caminho do arquivo de configuração.
func configPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "config.json")
}

// Load carrega as configurações do JSON local e aplica overrides de
// ambiente com prefixo TTV_ por cima. Arquivo ausente = padrão.
func Load() *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath())
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			log.Printf("[Config] config.json inválido, usando padrão: %v", err)
			cfg = DefaultConfig()
		}
	}

	if err := envconfig.Process("TTV", cfg); err != nil {
		log.Printf("[Config] Erro ao aplicar variáveis de ambiente: %v", err)
	}

	return cfg
}

// Save salva as configurações em um arquivo JSON.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(configPath(), data, 0644)
}
