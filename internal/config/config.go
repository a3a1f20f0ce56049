package config

import "os"

type Config struct {
	ListenAddr string
	DBPath     string
	UploadPath string
	CORSOrigin string
	LogLevel   string
	LogFile    string
}

func Load() *Config {
	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		DBPath:     getEnv("DB_PATH", "/data/taskboard.db"),
		UploadPath: getEnv("UPLOAD_PATH", "/data/uploads"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFile:    getEnv("LOG_FILE", ""),
	}
}

// ViewerConfig configures the headless viewer, which follows a board server
// from another process.
type ViewerConfig struct {
	APIBaseURL string
	CacheDir   string
	LogLevel   string
	LogFile    string

	// Local-cache merge toggles. The cache stays authoritative for task
	// status, photos and notes unless switched off.
	MergeLocalStatus bool
	MergeLocalPhotos bool
	MergeLocalNotes  bool
}

func LoadViewer() *ViewerConfig {
	return &ViewerConfig{
		APIBaseURL:       getEnv("API_URL", "http://localhost:8080"),
		CacheDir:         getEnv("CACHE_DIR", "/data/cache"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
		MergeLocalStatus: getEnv("MERGE_LOCAL_STATUS", "1") == "1",
		MergeLocalPhotos: getEnv("MERGE_LOCAL_PHOTOS", "1") == "1",
		MergeLocalNotes:  getEnv("MERGE_LOCAL_NOTES", "1") == "1",
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
