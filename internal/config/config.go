package config

import (
	"os"
	"strconv"
	"strings"
)

// Institution maps an email domain to its biodata numbering scheme.
type Institution struct {
	Domain        string // e.g. "student.cuet.ac.bd"
	ProfilePrefix string // e.g. "X"
	SequenceStart int    // first number in the profile ID sequence, e.g. 1001
}

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret     string
	JWTTTLMinutes int

	// MonetizationDefault is the fallback for the runtime toggle when redis has
	// no stored value.
	MonetizationDefault bool
	UnlockCost          int

	Institutions []Institution
}

func Load() *Config {
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		RedisURL: os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		JWTTTLMinutes: getEnvInt("JWT_TTL_MINUTES", 60),

		MonetizationDefault: getEnvBool("MONETIZATION_ENABLED", true),
		UnlockCost:          getEnvInt("UNLOCK_COST", 1),
	}

	cfg.Institutions = parseInstitutions(getEnv(
		"INSTITUTIONS",
		"student.cuet.ac.bd:X:1001",
	))

	return cfg
}

// InstitutionByEmail returns the institution whose domain matches the email
// suffix, or nil for a non-institutional address.
func (c *Config) InstitutionByEmail(email string) *Institution {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return nil
	}
	domain := strings.ToLower(email[at+1:])

	for i := range c.Institutions {
		if c.Institutions[i].Domain == domain {
			return &c.Institutions[i]
		}
	}
	return nil
}

// parseInstitutions parses "domain:prefix:start" entries separated by commas.
func parseInstitutions(raw string) []Institution {
	var institutions []Institution
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			continue
		}
		start, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		institutions = append(institutions, Institution{
			Domain:        strings.ToLower(parts[0]),
			ProfilePrefix: parts[1],
			SequenceStart: start,
		})
	}
	return institutions
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}
