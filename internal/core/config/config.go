package config

import (
	"errors"
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

type DevAPIHTTP struct {
	Host string
	Port int
}

type App struct {
	Name   string
	Env    string
	HTTP   HTTP
	DevAPI DevAPIHTTP `mapstructure:"devapi"`
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

// API 后端 REST 地址
type API struct {
	BaseURL    string `mapstructure:"baseurl"`
	TimeoutSec int    `mapstructure:"timeoutsec"`
}

type Session struct {
	Secret    string
	MaxAgeSec int
	Secure    bool
}

type Cache struct {
	Driver string // memory | redis
	TTLSec int
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Config struct {
	App     App
	Log     Log
	API     API `mapstructure:"api"`
	Session Session
	Cache   Cache
	JWT     JWT
	DB      DB
	Redis   Redis `mapstructure:"redis"`
}

// DefaultBaseURL 未配置后端地址时使用的本地开发地址
const DefaultBaseURL = "http://localhost:8080"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "optical-console")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5173)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 15)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.devapi.host", "0.0.0.0")
	v.SetDefault("app.devapi.port", 8080)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.filename", "logs/console.log")
	v.SetDefault("log.file.maxsizemb", 50)
	v.SetDefault("log.file.maxbackups", 5)
	v.SetDefault("log.file.maxagedays", 14)

	v.SetDefault("api.baseurl", DefaultBaseURL)
	v.SetDefault("api.timeoutsec", 10)

	v.SetDefault("session.secret", "change-me-in-config")
	v.SetDefault("session.maxagesec", 8*3600)

	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.ttlsec", 300)

	v.SetDefault("jwt.secret", "change-me-in-config")
	v.SetDefault("jwt.issuer", "optical-devapi")
	v.SetDefault("jwt.accesstokenttlmin", 120)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "devapi.db")
	v.SetDefault("db.maxopenconns", 10)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")
}

func Load(path string) *Config {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// 后端地址只认一个外部变量
	_ = v.BindEnv("api.baseurl", "API_BASE_URL")

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !os.IsNotExist(err) {
			log.Fatalf("read config: %v", err)
		}
		log.Printf("config %s not found, using defaults", path)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	return &c
}
