package appconfig

import (
	"github.com/SaiNageswarS/go-api-boot/config"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	HTTPPort     string `env:"HTTP-PORT" ini:"http_port"`
	DatabaseName string `env:"DATABASE-NAME" ini:"database_name"`

	KnowledgeDir string `env:"KNOWLEDGE-DIR" ini:"knowledge_dir"`
	OwnerName    string `ini:"owner_name"`

	EmbeddingModel string `ini:"embedding_model"`
	ChatProvider   string `ini:"chat_provider"` // "anthropic" or "groq"
	ChatModel      string `ini:"chat_model"`

	MaxChunkChars int `ini:"max_chunk_chars"`
}
