package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jengzang/towerjump-backend-go/internal/analysis/towerjump"
)

// Config 应用配置
type Config struct {
	Port       string
	DBPath     string
	JWTSecret  string // empty disables auth on mutating routes
	MaxUpload  int64  // bytes
	RateLimit  int
	RateWindow time.Duration
	Detector   towerjump.Config
}

// detectorFile is the optional YAML file named by DETECTOR_CONFIG
type detectorFile struct {
	WindowMinutes        *float64               `yaml:"window_minutes"`
	MaxSpeedKmh          *float64               `yaml:"max_speed_kmh"`
	BorderExceptionPairs []towerjump.RegionPair `yaml:"border_exception_pairs"`
}

const (
	defaultPort        = ":8080"
	defaultDBPath      = "./data/towerjump.db"
	defaultMaxUploadMB = 100
	defaultRateLimit   = 10
	defaultRateWindow  = time.Minute
)

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{
		Port:       getEnv("PORT", defaultPort),
		DBPath:     getEnv("DB_PATH", defaultDBPath),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		MaxUpload:  defaultMaxUploadMB << 20,
		RateLimit:  defaultRateLimit,
		RateWindow: defaultRateWindow,
		Detector:   towerjump.DefaultConfig(),
	}
	if !strings.HasPrefix(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_MB=%q", v)
		}
		cfg.MaxUpload = n << 20
	}

	if v := os.Getenv("RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT=%q", v)
		}
		cfg.RateLimit = n
	}

	if v := os.Getenv("RATE_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid RATE_WINDOW=%q", v)
		}
		cfg.RateWindow = d
	}

	if path := os.Getenv("DETECTOR_CONFIG"); path != "" {
		if err := applyDetectorFile(&cfg.Detector, path); err != nil {
			return nil, err
		}
		log.Printf("[Config] Detector settings loaded from %s", path)
	}

	// env overrides file
	if v := os.Getenv("WINDOW_MINUTES"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid WINDOW_MINUTES: %w", err)
		}
		cfg.Detector.WindowMinutes = f
	}
	if v := os.Getenv("MAX_SPEED_KMH"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_SPEED_KMH: %w", err)
		}
		cfg.Detector.MaxSpeedKmh = f
	}

	if err := cfg.Detector.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detector config: %w", err)
	}

	return cfg, nil
}

func applyDetectorFile(dc *towerjump.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read detector config: %w", err)
	}

	var file detectorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse detector config %s: %w", path, err)
	}

	if file.WindowMinutes != nil {
		dc.WindowMinutes = *file.WindowMinutes
	}
	if file.MaxSpeedKmh != nil {
		dc.MaxSpeedKmh = *file.MaxSpeedKmh
	}
	if file.BorderExceptionPairs != nil {
		dc.BorderExceptionPairs = file.BorderExceptionPairs
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
