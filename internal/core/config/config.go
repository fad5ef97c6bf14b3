package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level string
	JSON  bool
	File  string // 非空时写文件并按大小切割
}

// Store selects the key-value engine backing the user repository.
// Driver: dynamodb | redis | mysql | postgres | memory
type Store struct {
	Driver string
	Table  string
}

// AWS carries the well-known identifiers the Lambda deployment uses.
// 默认值固定，但测试/本地可以覆盖。
type AWS struct {
	Region   string
	Endpoint string
	TopicARN string `mapstructure:"topic_arn"`
	LogGroup string `mapstructure:"log_group"`
}

type DB struct {
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Config struct {
	App   App
	Log   Log
	Store Store
	AWS   AWS   `mapstructure:"aws"`
	DB    DB    `mapstructure:"db"`
	Redis Redis `mapstructure:"redis"`
}

func Load(path string) *Config {
	v := viper.New()
	explicit := path != ""
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "user-management-api")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("store.driver", "dynamodb")
	v.SetDefault("store.table", "User")
	v.SetDefault("aws.region", "eu-west-3")
	v.SetDefault("aws.topic_arn", "arn:aws:sns:eu-west-3:225578988341:userTopic")
	v.SetDefault("aws.log_group", "/aws/lambda/user-management")

	// Lambda 部署没有配置文件，读不到就全靠默认值 + 环境变量。
	if err := v.ReadInConfig(); err != nil {
		if explicit {
			log.Fatalf("read config: %v", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}
