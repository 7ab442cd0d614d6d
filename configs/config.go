package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DevEnv  = "dev"
	ProdEnv = "prod"
	TestEnv = "test"
)

type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	DBHost      string
	DBPort      string
	DBUser      string
	DBPass      string
	DBName      string
	DBReplicas  []string
	AutoMigrate bool

	RedisHost string
	RedisPort string
	RedisPass string

	FeedCacheDriver string
	FeedCacheSize   int

	JWTSecret string
	JWTTTL    time.Duration

	PlacesAPIKey string
	PlacesURL    string
	AIKey        string
	AIHost       string
	AIURL        string
	ProxyLimit   int64

	KafkaBrokers string
	PostsTopic   string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
	S3PublicURL string

	OTELEndpoint    string
	OTELServiceName string
	OTELSampleRatio float64
}

// LoadDotEnvs loads .env files following the dotenv convention. Files loaded
// first win because godotenv never overrides a variable that is already set.
func LoadDotEnvs() {
	env := getEnv("APP_ENV", DevEnv)
	_ = godotenv.Load(".env." + env + ".local")
	if env != TestEnv {
		_ = godotenv.Load(".env.local")
	}
	_ = godotenv.Load(".env." + env)
	_ = godotenv.Load(".env")
}

func LoadConfig() *Config {
	return &Config{
		AppPort:  getEnv("APP_PORT", ":3000"),
		AppEnv:   getEnv("APP_ENV", DevEnv),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPass:      getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "foodie_db"),
		DBReplicas:  splitList(os.Getenv("DB_REPLICAS")),
		AutoMigrate: getBool("AUTO_MIGRATE", true),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		FeedCacheDriver: getEnv("FEED_CACHE_DRIVER", "redis"),
		FeedCacheSize:   getInt("FEED_CACHE_SIZE", 16),

		JWTSecret: getEnv("JWT_SECRET", "replace-this-with-a-strong-secret"),
		JWTTTL:    getDuration("JWT_TTL", 24*time.Hour),

		PlacesAPIKey: os.Getenv("GOOGLE_MAPS_API"),
		PlacesURL:    getEnv("PLACES_URL", "https://places.googleapis.com/v1/places:searchText"),
		AIKey:        os.Getenv("AI_KEY"),
		AIHost:       getEnv("AI_HOST", "open-ai21.p.rapidapi.com"),
		AIURL:        getEnv("AI_URL", "https://open-ai21.p.rapidapi.com/conversationgpt35"),
		ProxyLimit:   int64(getInt("PROXY_RATE_LIMIT", 30)),

		KafkaBrokers: os.Getenv("KAFKA_BOOTSTRAP_SERVERS"),
		PostsTopic:   getEnv("POSTS_TOPIC", "posts.events"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    getEnv("S3_BUCKET", "images"),
		S3UseSSL:    getBool("S3_USE_SSL", false),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		OTELEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTELServiceName: getEnv("OTEL_SERVICE_NAME", "foodie-finder"),
		OTELSampleRatio: getFloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName,
	)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func (c *Config) IsProduction() bool { return c.AppEnv == ProdEnv }

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f < 0 || f > 1 {
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
