// Package config loads application settings from .env and the
// environment.
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Search  SearchConfig
	Printer PrinterConfig
	Store   StoreConfig
	Server  ServerConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Currency string
	Debug    bool
}

// APIConfig configures the backend client used by the CLI.
type APIConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

type SearchConfig struct {
	DebounceWindow time.Duration
}

type PrinterConfig struct {
	Type    string // usb, network, spool, none
	Device  string // device path (usb) or spool dir
	Address string // host:port for network printers
	Width   int    // characters per line: 32 or 48
}

// StoreConfig is the header block printed on every receipt.
type StoreConfig struct {
	Name    string
	Address string
	Phone   string
	GSTIN   string
}

// ServerConfig configures the local backend started by `pos serve`.
type ServerConfig struct {
	Port   string
	DBPath string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "shopbill-pos")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_CURRENCY", "Rs.")
	viper.SetDefault("APP_DEBUG", false)
	viper.SetDefault("API_BASE_URL", "http://localhost:8080")
	viper.SetDefault("API_TIMEOUT_SECONDS", 10)
	viper.SetDefault("API_REQUESTS_PER_SECOND", 10)
	viper.SetDefault("API_BURST", 20)
	viper.SetDefault("SEARCH_DEBOUNCE_MS", 300)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_DEVICE", "")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_WIDTH", 32)
	viper.SetDefault("STORE_NAME", "My Store")
	viper.SetDefault("STORE_ADDRESS", "")
	viper.SetDefault("STORE_PHONE", "")
	viper.SetDefault("STORE_GSTIN", "")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_DB_PATH", "pos.db")

	return &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Env:      viper.GetString("APP_ENV"),
			Currency: viper.GetString("APP_CURRENCY"),
			Debug:    viper.GetBool("APP_DEBUG"),
		},
		API: APIConfig{
			BaseURL:           viper.GetString("API_BASE_URL"),
			Timeout:           time.Duration(viper.GetInt("API_TIMEOUT_SECONDS")) * time.Second,
			RequestsPerSecond: viper.GetFloat64("API_REQUESTS_PER_SECOND"),
			Burst:             viper.GetInt("API_BURST"),
		},
		Search: SearchConfig{
			DebounceWindow: time.Duration(viper.GetInt("SEARCH_DEBOUNCE_MS")) * time.Millisecond,
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			Device:  viper.GetString("PRINTER_DEVICE"),
			Address: viper.GetString("PRINTER_ADDRESS"),
			Width:   viper.GetInt("PRINTER_WIDTH"),
		},
		Store: StoreConfig{
			Name:    viper.GetString("STORE_NAME"),
			Address: viper.GetString("STORE_ADDRESS"),
			Phone:   viper.GetString("STORE_PHONE"),
			GSTIN:   viper.GetString("STORE_GSTIN"),
		},
		Server: ServerConfig{
			Port:   viper.GetString("SERVER_PORT"),
			DBPath: viper.GetString("SERVER_DB_PATH"),
		},
	}
}
