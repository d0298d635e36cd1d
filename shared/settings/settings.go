// Package settings persiste as preferências do cliente (chaves core.*)
// e o cache local de cenas em um banco SQLite.
package settings

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Escopos de um setting persistido.
const (
	ScopeClient = "client"
	ScopeWorld  = "world"
)

// Chaves consumidas pelo núcleo. Os nomes são fixos por compatibilidade.
const (
	KeyPerformanceMode     = "core.performanceMode"
	KeyMaxFPS              = "core.maxFPS"
	KeyLightAnimation      = "core.lightAnimation"
	KeyVisionAnimation     = "core.visionAnimation"
	KeyMipmap              = "core.mipmap"
	KeyPhotosensitiveMode  = "core.photosensitiveMode"
	KeyGlobalAmbientVolume = "core.globalAmbientVolume"
)

// definition descreve um setting registrado: escopo, default e se a
// mudança só vale após recarregar.
type definition struct {
	scope          string
	def            string
	requiresReload bool
}

var registry = map[string]definition{
	KeyPerformanceMode:     {ScopeClient, "high", true},
	KeyMaxFPS:              {ScopeClient, "60", false},
	KeyLightAnimation:      {ScopeClient, "true", false},
	KeyVisionAnimation:     {ScopeClient, "true", false},
	KeyMipmap:              {ScopeClient, "true", true},
	KeyPhotosensitiveMode:  {ScopeClient, "false", false},
	KeyGlobalAmbientVolume: {ScopeWorld, "1", false},
}

// SettingModel representa o esquema do banco para um setting escopado.
type SettingModel struct {
	Key       string `gorm:"primaryKey"`
	Scope     string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

// Store mantém os settings persistidos com cache em memória.
// Valores com requiresReload ficam retidos até o próximo arranque.
type Store struct {
	mu     sync.RWMutex
	db     *gorm.DB
	values map[string]string // valores efetivos nesta sessão
	staged map[string]string // gravados, aplicáveis só no próximo boot
}

// Open abre (ou cria) o banco local e carrega os settings efetivos.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	dbPath := filepath.Join(dataDir, "client.tv")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}
	if err := db.AutoMigrate(&SettingModel{}, &SceneSnapshotModel{}); err != nil {
		return nil, fmt.Errorf("falha na migração do banco: %w", err)
	}

	s := &Store{
		db:     db,
		values: make(map[string]string),
		staged: make(map[string]string),
	}

	var rows []SettingModel
	db.Find(&rows)
	for _, row := range rows {
		if _, known := registry[row.Key]; known {
			s.values[row.Key] = row.Value
		}
	}

	log.Printf("[Settings] Banco local aberto: %s (%d settings carregados)", dbPath, len(rows))
	return s, nil
}

// Close fecha a conexão com o banco.
func (s *Store) Close() {
	if s.db != nil {
		if sqlDB, _ := s.db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	}
}

// Get retorna o valor efetivo (string) de uma chave registrada.
func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return registry[key].def
}

// Set grava o valor de uma chave. Settings com requiresReload são
// persistidos mas só passam a valer no próximo arranque.
func (s *Store) Set(key, value string) error {
	def, known := registry[key]
	if !known {
		return fmt.Errorf("setting desconhecido: %s", key)
	}

	if s.db != nil {
		model := SettingModel{Key: key, Scope: def.scope, Value: value}
		if err := s.db.Save(&model).Error; err != nil {
			return fmt.Errorf("falha ao salvar setting %s: %w", key, err)
		}
	}

	s.mu.Lock()
	if def.requiresReload {
		s.staged[key] = value
		log.Printf("[Settings] %s=%s gravado; aplica no próximo arranque", key, value)
	} else {
		s.values[key] = value
	}
	s.mu.Unlock()
	return nil
}

// --- Acessores tipados das chaves do núcleo ---

// PerformanceMode retorna low, med, high ou max.
func (s *Store) PerformanceMode() string {
	switch v := s.Get(KeyPerformanceMode); v {
	case "low", "med", "high", "max":
		return v
	}
	return "high"
}

// MaxFPS retorna o teto de quadros, restrito a 10..60 em passos de 10.
func (s *Store) MaxFPS() int32 {
	v, err := strconv.Atoi(s.Get(KeyMaxFPS))
	if err != nil {
		v = 60
	}
	if v < 10 {
		v = 10
	}
	if v > 60 {
		v = 60
	}
	return int32(v - v%10)
}

// LightAnimation indica se fontes de luz animam.
func (s *Store) LightAnimation() bool { return s.getBool(KeyLightAnimation) }

// VisionAnimation indica se fontes de visão animam.
func (s *Store) VisionAnimation() bool { return s.getBool(KeyVisionAnimation) }

// Mipmap indica se texturas geram mipmaps (requer reload).
func (s *Store) Mipmap() bool { return s.getBool(KeyMipmap) }

// PhotosensitiveMode desliga pulsos e flashes de animação.
func (s *Store) PhotosensitiveMode() bool { return s.getBool(KeyPhotosensitiveMode) }

// GlobalAmbientVolume retorna o volume ambiente em [0,1].
func (s *Store) GlobalAmbientVolume() float64 {
	v, err := strconv.ParseFloat(s.Get(KeyGlobalAmbientVolume), 64)
	if err != nil || v < 0 {
		return 1
	}
	if v > 1 {
		return 1
	}
	return v
}

func (s *Store) getBool(key string) bool {
	v, err := strconv.ParseBool(s.Get(key))
	if err != nil {
		return registry[key].def == "true"
	}
	return v
}
