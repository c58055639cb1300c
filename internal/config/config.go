package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config 全部来自环境变量；角色组 GUID 在启动时读入一次，业务代码不散落字面量
type Config struct {
	Server ServerConfig
	MySQL  MySQLConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	SMTP   SMTPConfig
	CMS    CMSConfig
	JWT    JWTConfig
	Roles  RoleConfig
}

type ServerConfig struct {
	Addr string
}

type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		m.User, m.Password, m.Host, m.Port, m.DBName)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type CMSConfig struct {
	BaseURL string
	APIKey  string
}

type JWTConfig struct {
	AccessSecret string
}

// RoleConfig Admin / Scheduler 两个成员组的 CMS GUID
type RoleConfig struct {
	AdminGroupKey     string
	SchedulerGroupKey string
}

// Load 读取环境变量，缺省值适合本地开发
func Load() Config {
	return Config{
		Server: ServerConfig{
			Addr: envStr("SERVER_ADDR", ":8080"),
		},
		MySQL: MySQLConfig{
			Host:     envStr("MYSQL_HOST", "127.0.0.1"),
			Port:     envInt("MYSQL_PORT", 3306),
			User:     envStr("MYSQL_USER", "volunteer"),
			Password: envStr("MYSQL_PASSWORD", ""),
			DBName:   envStr("MYSQL_DB", "volunteer_jobs"),
		},
		Redis: RedisConfig{
			Addr:     envStr("REDIS_ADDR", ""),
			Password: envStr("REDIS_PASSWORD", ""),
			DB:       envInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(envStr("KAFKA_BROKERS", "")),
			Topic:   envStr("KAFKA_TOPIC", "volunteer.application.events"),
		},
		SMTP: SMTPConfig{
			Host:     envStr("SMTP_HOST", ""),
			Port:     envInt("SMTP_PORT", 587),
			Username: envStr("SMTP_USERNAME", ""),
			Password: envStr("SMTP_PASSWORD", ""),
			From:     envStr("SMTP_FROM", "NoReply <no-reply@bluebridge.dk>"),
		},
		CMS: CMSConfig{
			BaseURL: envStr("CMS_BASE_URL", "http://127.0.0.1:5000"),
			APIKey:  envStr("CMS_API_KEY", ""),
		},
		JWT: JWTConfig{
			AccessSecret: envStr("JWT_ACCESS_SECRET", "secret-key"),
		},
		Roles: RoleConfig{
			AdminGroupKey:     envStr("ADMIN_GROUP_KEY", "99e1edbb-8181-421d-a74b-e66a2f1e1148"),
			SchedulerGroupKey: envStr("SCHEDULER_GROUP_KEY", "e6eef645-b13b-4edb-880b-7b3cdf5b6816"),
		},
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func splitNonEmpty(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
