package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultChainID is BSC testnet, the network the contracts are deployed on.
const DefaultChainID int64 = 97

// defaultRPCURLs are public endpoints used when neither RPC_URL_<id> nor RPC_URL is set.
var defaultRPCURLs = map[int64]string{
	97: "https://data-seed-prebsc-1-s1.bnbchain.org:8545",
	56: "https://bsc-dataseed.bnbchain.org",
}

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	BackendAPIURL       string // BACKEND_API_URL; empty means every proxied route answers 500
	ChainID             int64
	RPCURL              string
	RegistryAddress     string
	FactoryAddress      string
	BadgeAddress        string
	NativeSymbol        string // label attached to donation amounts (BNB on BSC)
	RedisURL            string
	DatabaseURL         string
	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string
	LogLevel            string
	LogFile             string
	Storage             StorageConfig
}

// StorageConfig is the S3-compatible (Cloudflare R2) bucket behind the image CDN.
type StorageConfig struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

// Enabled reports whether uploads can be served.
func (s StorageConfig) Enabled() bool {
	return s.AccountID != "" && s.AccessKeyID != "" && s.AccessKeySecret != "" && s.Bucket != ""
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("CHAIN_ID", DefaultChainID)
	viper.SetDefault("NATIVE_SYMBOL", "BNB")
	viper.SetDefault("LOG_LEVEL", "info")

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = viper.GetString("NODE_ENV")
	}
	if env == "" {
		env = "development"
	}

	chainID := viper.GetInt64("CHAIN_ID")
	if chainID <= 0 {
		return nil, fmt.Errorf("config: CHAIN_ID must be positive, got %d", chainID)
	}

	return &Config{
		Env:                 env,
		Port:                viper.GetString("PORT"),
		BackendAPIURL:       strings.TrimRight(strings.TrimSpace(viper.GetString("BACKEND_API_URL")), "/"),
		ChainID:             chainID,
		RPCURL:              ResolveRPCURL(chainID, viper.GetString(fmt.Sprintf("RPC_URL_%d", chainID)), viper.GetString("RPC_URL")),
		RegistryAddress:     viper.GetString("REGISTRY_ADDRESS"),
		FactoryAddress:      viper.GetString("FACTORY_ADDRESS"),
		BadgeAddress:        viper.GetString("BADGE_ADDRESS"),
		NativeSymbol:        viper.GetString("NATIVE_SYMBOL"),
		RedisURL:            viper.GetString("REDIS_URL"),
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		LogFile:             viper.GetString("LOG_FILE"),
		Storage: StorageConfig{
			AccountID:       viper.GetString("R2_ACCOUNT_ID"),
			AccessKeyID:     viper.GetString("R2_ACCESS_KEY_ID"),
			AccessKeySecret: viper.GetString("R2_ACCESS_KEY_SECRET"),
			Bucket:          viper.GetString("R2_BUCKET_NAME"),
			CDNBaseURL:      strings.TrimRight(viper.GetString("CDN_BASE_URL"), "/"),
		},
	}, nil
}

// ResolveRPCURL picks the per-chain override, then the generic RPC_URL, then the built-in default.
func ResolveRPCURL(chainID int64, override, fallback string) string {
	if s := strings.TrimSpace(override); s != "" {
		return s
	}
	if s := strings.TrimSpace(fallback); s != "" {
		return s
	}
	return defaultRPCURLs[chainID]
}
