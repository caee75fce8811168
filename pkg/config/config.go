package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Chain     ChainConfig     `mapstructure:"chain"`
	Grant     GrantConfig     `mapstructure:"grant"`
	Whitelist WhitelistConfig `mapstructure:"whitelist"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MQ        MQConfig        `mapstructure:"mq"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Lock      LockConfig      `mapstructure:"lock"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
}

type ChainConfig struct {
	RpcUrl           string        `mapstructure:"rpc_url"`
	TreasuryAddress  string        `mapstructure:"treasury_address"`
	PrivateKey       string        `mapstructure:"private_key"`       // 出账签名私钥 (hex)，为空则禁用真实分发
	KeystorePath     string        `mapstructure:"keystore_path"`     // 加密助记词文件
	KeystorePassword string        `mapstructure:"keystore_password"` // keystore 解密密码
	Mnemonic         string        `mapstructure:"mnemonic"`          // 备选签名凭证: BIP-39 助记词 (明文)
	DerivationPath   string        `mapstructure:"derivation_path"`   // 助记词派生路径
	ExplorerUrl      string        `mapstructure:"explorer_url"`
	Timeout          time.Duration `mapstructure:"timeout"` // 单次请求内所有链上调用的截止时间
}

type GrantConfig struct {
	FeePercent        int64  `mapstructure:"fee_percent"`
	DefaultMockAmount string `mapstructure:"default_mock_amount"`
	MockSender        string `mapstructure:"mock_sender"`
	DefaultReason     string `mapstructure:"default_reason"`
	RecentLimit       int    `mapstructure:"recent_limit"`
}

type WhitelistConfig struct {
	Url          string        `mapstructure:"url"` // 为空则不挂载白名单中间件
	TTL          time.Duration `mapstructure:"ttl"`
	Timeout      time.Duration `mapstructure:"timeout"`
	PrimaryField string        `mapstructure:"primary_field"`
	RefreshSpec  string        `mapstructure:"refresh_spec"` // cron 表达式，为空则只在请求时懒加载
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MQConfig struct {
	Type  string `mapstructure:"type"` // "none", "redis" or "kafka"
	Topic string `mapstructure:"topic"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

type LockConfig struct {
	Type string        `mapstructure:"type"` // "memory" or "redis"
	TTL  time.Duration `mapstructure:"ttl"`
}

var Global Config

func Init() {
	// .env 只用于本地开发，不存在时忽略
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name
	viper.AddConfigPath(".")      // optionally look for config in the working directory
	viper.AddConfigPath("./config")

	// 环境变量设置: chain.private_key -> CHAIN_PRIVATE_KEY
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			log.Fatalf("Fatal error config file: %s \n", err)
		}
	}

	if err := viper.Unmarshal(&Global); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	if err := Global.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Printf("Configuration loaded successfully. Env: %s", Global.App.Env)
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.http_port", "8080")

	viper.SetDefault("chain.rpc_url", "https://mainnet.base.org")
	viper.SetDefault("chain.treasury_address", "")
	viper.SetDefault("chain.private_key", "")
	viper.SetDefault("chain.keystore_path", "")
	viper.SetDefault("chain.keystore_password", "")
	viper.SetDefault("chain.mnemonic", "")
	viper.SetDefault("chain.derivation_path", "m/44'/60'/0'/0/0")
	viper.SetDefault("chain.explorer_url", "https://basescan.org")
	viper.SetDefault("chain.timeout", 30*time.Second)

	viper.SetDefault("grant.fee_percent", 5)
	viper.SetDefault("grant.default_mock_amount", "0.01")
	viper.SetDefault("grant.mock_sender", "0x0000000000000000000000000000000000000000")
	viper.SetDefault("grant.default_reason", "Grant")
	viper.SetDefault("grant.recent_limit", 10)

	viper.SetDefault("whitelist.url", "")
	viper.SetDefault("whitelist.ttl", 5*time.Minute)
	viper.SetDefault("whitelist.timeout", 10*time.Second)
	viper.SetDefault("whitelist.primary_field", "grantor")
	viper.SetDefault("whitelist.refresh_spec", "@every 5m")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("mq.type", "none")
	viper.SetDefault("mq.topic", "grant_events_completed")

	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})

	viper.SetDefault("lock.type", "memory")
	viper.SetDefault("lock.ttl", 2*time.Minute)
}
