package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/K1ritsugu/music-player-spa/internal/api"
	"github.com/K1ritsugu/music-player-spa/internal/auth"
	"github.com/K1ritsugu/music-player-spa/internal/events"
	"github.com/K1ritsugu/music-player-spa/internal/store"
)

func main() {
	_ = godotenv.Load()

	port := getenv("PORT", "3002")
	dbPath := getenv("DB_PATH", "db.json")

	st := store.NewFileStore(dbPath)

	var authn auth.Authenticator
	switch getenv("AUTH_MODE", "mock") {
	case "jwt":
		secret := getenv("JWT_SECRET", "")
		if secret == "" {
			log.Fatal("api-server: JWT_SECRET is required when AUTH_MODE=jwt")
		}
		authn = auth.NewJWTAuthenticator([]byte(secret), getenvDuration("JWT_TTL", 24*time.Hour))
	default:
		authn = auth.NewMockAuthenticator()
	}

	var pub *events.Publisher
	if redisURL := getenv("REDIS_URL", ""); redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("api-server: redis: %v", err)
		}
		rdb := redis.NewClient(opt)
		defer rdb.Close()
		pub = events.NewPublisher(rdb, getenv("EVENTS_CHANNEL", "broadcast"))
	}

	srv := api.NewServer(st, authn, pub, api.Config{
		PublicDir:      getenv("PUBLIC_DIR", "public"),
		MaxAudioBytes:  getenvInt64("MAX_AUDIO_BYTES", 0),
		MaxImageBytes:  getenvInt64("MAX_IMAGE_BYTES", 0),
		MaxAvatarBytes: getenvInt64("MAX_AVATAR_BYTES", 0),
	})

	r := srv.Router(api.CORSMiddleware, api.RequestLogMiddleware)

	log.Printf("api-server on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("api-server: %v", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt64(k string, def int64) int64 {
	raw := getenv(k, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getenvDuration(k string, def time.Duration) time.Duration {
	raw := getenv(k, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
