package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const defaultFreeTrialCredits = 3

// дефолтный список зеркал субтитров, порядок важен
var defaultSubtitleMirrors = []string{
	"https://yewtu.be",
	"https://inv.nadeko.net",
	"https://id.420129.xyz",
	"https://invidious.nerdvpn.de",
	"https://invidious.f5.si",
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

func (s S3Config) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

// Config — вся конфигурация процесса, читается один раз в main
type Config struct {
	Port        string
	DatabaseURL string

	OpenAIKey     string
	ElevenLabsKey string

	S3           S3Config
	SummariesDir string

	SubtitleMirrors  []string
	FreeTrialCredits int

	AdminToken string

	TelegramToken string
	AdminChatID   int64
}

func Load() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		ElevenLabsKey: os.Getenv("ELEVENLABS_API_KEY"),
		S3: S3Config{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    getEnv("S3_REGION", "eu-west-3"),
		},
		SummariesDir:     getEnv("SUMMARIES_DIR", "./static/summaries"),
		SubtitleMirrors:  splitList(os.Getenv("SUBTITLE_MIRRORS"), defaultSubtitleMirrors),
		FreeTrialCredits: getEnvInt("FREE_TRIAL_CREDITS", defaultFreeTrialCredits),
		AdminToken:       os.Getenv("ADMIN_TOKEN"),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		AdminChatID:      getEnvInt64("TELEGRAM_ADMIN_CHAT_ID", 0),
	}
	return cfg
}

// Validate — fail fast: без этих переменных сервис не имеет смысла
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if c.ElevenLabsKey == "" {
		return fmt.Errorf("ELEVENLABS_API_KEY is not set")
	}
	if c.FreeTrialCredits < 0 {
		return fmt.Errorf("FREE_TRIAL_CREDITS must be >= 0, got %d", c.FreeTrialCredits)
	}
	if len(c.SubtitleMirrors) == 0 {
		return fmt.Errorf("subtitle mirror list is empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(raw string, fallback []string) []string {
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.TrimRight(p, "/"))
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
