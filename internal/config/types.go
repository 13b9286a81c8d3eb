package config

// Config holds all configuration for the application.
type Config struct {
	DBName     string
	Port       string
	LevelOrder []string
	Turso      TursoConfig
}

// TursoConfig holds the optional remote database settings. When PrimaryURL
// is empty the application runs against a local SQLite file.
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
