package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/kelseyhightower/envconfig"
)

var ErrNoCredentials = errors.New("no database credentials configured")

type Config struct {
	Bind              string   `envconfig:"BOARD_BIND" default:":8080"`
	Debug             bool     `envconfig:"BOARD_DEBUG"`
	Secret            string   `envconfig:"BOARD_SECRET"`
	Locale            string   `envconfig:"BOARD_LOCALE" default:"ko"`
	DBDSN             string   `envconfig:"BOARD_DB_DSN"`
	DBCredentials     string   `envconfig:"BOARD_DB_CREDENTIALS"`
	DBCredentialsFile string   `envconfig:"BOARD_DB_CREDENTIALS_FILE" default:"db-credentials.json"`
	RedisAddress      string   `envconfig:"BOARD_REDIS_ADDRESS"`
	RedisPassword     string   `envconfig:"BOARD_REDIS_PASSWORD"`
	RedisDB           int      `envconfig:"BOARD_REDIS_DB"`
	KafkaBrokers      []string `envconfig:"BOARD_KAFKA_BROKERS"`
	KafkaTopic        string   `envconfig:"BOARD_KAFKA_TOPIC" default:"board-audit"`
	SMTPHost          string   `envconfig:"BOARD_SMTP_HOST"`
	SMTPPort          int      `envconfig:"BOARD_SMTP_PORT" default:"587"`
	SMTPUsername      string   `envconfig:"BOARD_SMTP_USERNAME"`
	SMTPPassword      string   `envconfig:"BOARD_SMTP_PASSWORD"`
	SMTPFrom          string   `envconfig:"BOARD_SMTP_FROM"`
	AdminNotify       string   `envconfig:"BOARD_ADMIN_NOTIFY"`
	AdminPassword     string   `envconfig:"BOARD_ADMIN_PASSWORD" default:"admin123"`
}

// DBCredentials is the JSON credentials blob accepted from the environment or a file.
type DBCredentials struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
}

func LoadConfig() (*Config, error) {
	var result Config
	if err := envconfig.Process("", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DSN 优先级：显式 DSN > 环境变量里的凭据 > 本地凭据文件
func (c *Config) DSN() (string, error) {
	if c.DBDSN != "" {
		return c.DBDSN, nil
	}

	var raw []byte
	if c.DBCredentials != "" {
		raw = []byte(c.DBCredentials)
	} else if c.DBCredentialsFile != "" {
		data, err := os.ReadFile(c.DBCredentialsFile)
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoCredentials
		}
		if err != nil {
			return "", err
		}
		raw = data
	} else {
		return "", ErrNoCredentials
	}

	var cred DBCredentials
	if err := json.Unmarshal(raw, &cred); err != nil {
		return "", fmt.Errorf("parse database credentials: %w", err)
	}
	return cred.DSN()
}

func (cred DBCredentials) DSN() (string, error) {
	if cred.Host == "" || cred.User == "" || cred.Database == "" {
		return "", errors.New("database credentials need host, user and database")
	}
	port := cred.Port
	if port == 0 {
		port = 3306
	}

	cfg := mysqldrv.NewConfig()
	cfg.User = cred.User
	cfg.Passwd = cred.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(cred.Host, strconv.Itoa(port))
	cfg.DBName = cred.Database
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN(), nil
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddress != ""
}

func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaTopic != ""
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.AdminNotify != ""
}
