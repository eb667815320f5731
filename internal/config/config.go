package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	RawDocDir string
	OutputDir string

	ProjectID     string
	DocAILocation string

	SamsProcessorID        string
	SamsProcessorVersionID string
	CityProcessorID        string
	CityProcessorVersionID string

	InputBucket     string
	ProcessedBucket string
	LocalInputDir   string
	LocalDoneDir    string

	SpreadsheetID string
	ProductsRange string
	EntriesRange  string

	ListenerStore       string
	ListenerIntervalSec int
	ListenerFetchMax    int
	ListenerBatch       int
	ListenerAutoExport  bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		RawDocDir: getEnv("RAW_DOC_DIR", filepath.Join(cwd, "data", "raw")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		ProjectID:     getEnv("PROJECT_ID", ""),
		DocAILocation: getEnv("DOCAI_LOCATION", "us"),

		SamsProcessorID:        getEnv("SAMS_PROCESSOR_ID", ""),
		SamsProcessorVersionID: getEnv("SAMS_PROCESSOR_VERSION_ID", ""),
		CityProcessorID:        getEnv("CITY_PROCESSOR_ID", ""),
		CityProcessorVersionID: getEnv("CITY_PROCESSOR_VERSION_ID", ""),

		InputBucket:     getEnv("INPUT_BUCKET", ""),
		ProcessedBucket: getEnv("PROCESSED_BUCKET", ""),
		LocalInputDir:   getEnv("LOCAL_INPUT_DIR", filepath.Join(cwd, "data", "inbox")),
		LocalDoneDir:    getEnv("LOCAL_DONE_DIR", filepath.Join(cwd, "data", "done")),

		SpreadsheetID: getEnv("SPREADSHEET_ID", ""),
		ProductsRange: getEnv("PRODUCTS_RANGE", "PRODUCTOS!A:D"),
		EntriesRange:  getEnv("ENTRIES_RANGE", "ENTRADAS!A:J"),

		ListenerStore:       getEnv("LISTENER_STORE", "gcs"),
		ListenerIntervalSec: getEnvInt("LISTENER_INTERVAL_SEC", 60),
		ListenerFetchMax:    getEnvInt("LISTENER_FETCH_MAX", 20),
		ListenerBatch:       getEnvInt("LISTENER_PROCESS_BATCH", 20),
		ListenerAutoExport:  getEnvBool("LISTENER_AUTO_EXPORT", false),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
