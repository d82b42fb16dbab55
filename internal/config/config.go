package config

import (
	"crypto/rsa"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type Config struct {
	JWTPrivateKey  *rsa.PrivateKey
	JWTPublicKey   *rsa.PublicKey
	DatabaseURL    string
	RedisAddress   string
	RedisPassword  string
	Port           string
	AllowedOrigins []string
}

func Load() *Config {
	// A local .env is a convenience for development; absent is fine.
	_ = godotenv.Load()

	privateKeyPath := os.Getenv("PRIVATE_KEY_PATH")
	if privateKeyPath == "" {
		privateKeyPath = "/etc/certs/private.pem"
	}
	privateKey, err := loadPrivateKey(privateKeyPath)
	if err != nil {
		panic("Failed to load private key: " + err.Error())
	}

	publicKeyPath := os.Getenv("PUBLIC_KEY_PATH")
	if publicKeyPath == "" {
		publicKeyPath = "/etc/certs/public.pem"
	}
	publicKey, err := loadPublicKey(publicKeyPath)
	if err != nil {
		panic("Failed to load public key: " + err.Error())
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	origins := []string{"*"}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	return &Config{
		JWTPrivateKey:  privateKey,
		JWTPublicKey:   publicKey,
		DatabaseURL:    dbURL,
		RedisAddress:   redisAddr,
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		Port:           port,
		AllowedOrigins: origins,
	}
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return privateKey, nil
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return publicKey, nil
}
