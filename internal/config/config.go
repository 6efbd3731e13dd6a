package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Rag      RagConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	DocsPath           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	Anthropic    string
	GoogleGemini string
	EmbedTopic   string // Chunk embedding topic
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaEmbedModel  string
	LLMProvider       string // "anthropic" or "ollama"
	LLMModel          string // e.g. "claude-sonnet-4-20250514", "llama3.1"
}

type RagConfig struct {
	// ChunkSize and ChunkOverlap are measured in runes, not tokens.
	ChunkSize    int
	ChunkOverlap int
	MaxResults   int
	// MaxHistory is the number of prior exchanges kept per session.
	// One exchange is a user turn plus an assistant turn.
	MaxHistory      int
	MaxToolRounds   int
	ModelRetries    int
	SearchThreshold float64
	VectorStore     string // "pgvector" or "memory"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			DocsPath:           getEnv("DOCS_PATH", "./docs"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			Anthropic:    getEnv("ANTHROPIC_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			EmbedTopic:   getEnv("EMBED_COURSE_CONTENT_TOPIC_NAME", "EMBED_COURSE_CONTENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "anthropic"),
			LLMModel:          getEnv("LLM_MODEL", "claude-sonnet-4-20250514"),
		},
		Rag: RagConfig{
			ChunkSize:       getEnvAsInt("CHUNK_SIZE", 800),
			ChunkOverlap:    getEnvAsInt("CHUNK_OVERLAP", 100),
			MaxResults:      getEnvAsInt("MAX_RESULTS", 5),
			MaxHistory:      getEnvAsInt("MAX_HISTORY", 2),
			MaxToolRounds:   getEnvAsInt("MAX_TOOL_ROUNDS", 2),
			ModelRetries:    getEnvAsInt("MODEL_RETRIES", 3),
			SearchThreshold: getEnvAsFloat("SEARCH_THRESHOLD", 0.0),
			VectorStore:     getEnv("VECTOR_STORE", "pgvector"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
