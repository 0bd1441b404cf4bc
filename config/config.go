package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName   string `json:"appname"`
	AppEnv    string `json:"appenv"`
	AppPort   uint16 `json:"appport"`
	GinMode   string `json:"ginmode"`
	Directory string `json:"directory"`
	GeoIPPath string `json:"geoippath"`
	DBHost    string `json:"dbhost"`
	DBPort    uint16 `json:"dbport"`
	DBName    string `json:"dbname"`
	DBUser    string `json:"dbuser"`
	DBPass    string `json:"dbpass"`
}

var config *Config
var once sync.Once

// LoadConfig loads environment variables from a .env file when present and
// returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil && os.Getenv("APPENV") == "" {
			log.Printf("no .env file loaded: %v", err)
		}

		appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
		dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)

		config = &Config{
			AppName:   os.Getenv("APPNAME"),
			AppEnv:    os.Getenv("APPENV"),
			AppPort:   uint16(appPort),
			GinMode:   os.Getenv("GINMODE"),
			Directory: os.Getenv("DIRECTORY"),
			GeoIPPath: os.Getenv("GEOIP_DB_PATH"),
			DBHost:    os.Getenv("DBHOST"),
			DBPort:    uint16(dbPort),
			DBName:    os.Getenv("DBNAME"),
			DBUser:    os.Getenv("DBUSER"),
			DBPass:    os.Getenv("DBPASS"),
		}
	})
	return config
}

// ResetConfigForTest clears the cached singleton so tests can reload with
// fresh environment variables.
func ResetConfigForTest() {
	config = nil
	once = sync.Once{}
}

// ConnectDatabase opens the application database: MySQL from configuration
// values in normal runs, a shared in-memory sqlite database when
// APPENV=test so endpoint tests dial the same entry point the server uses.
func ConnectDatabase() (*gorm.DB, error) {
	cfg := LoadConfig()

	if cfg.AppEnv == "test" {
		return gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
