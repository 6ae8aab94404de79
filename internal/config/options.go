// Package config holds the command-line option groups shared by the chaincache binaries.
package config

import (
	"time"

	"github.com/goodnatureofminers/chaincache-backend/internal/cache/storage/sqlstore"
	"github.com/goodnatureofminers/chaincache-backend/internal/cache/turtlecoin"
	"github.com/goodnatureofminers/chaincache-backend/internal/logging"
)

// RPCOptions locate the origin daemon.
type RPCOptions struct {
	Host    string        `long:"host" env:"HOST" description:"daemon RPC host" default:"127.0.0.1"`
	Port    int           `long:"port" env:"PORT" description:"daemon RPC port" default:"11898"`
	Timeout time.Duration `long:"timeout" env:"TIMEOUT" description:"daemon RPC timeout" default:"20s"`
	RPS     int           `long:"rps" env:"RPS" description:"max daemon requests per second, 0 for unlimited" default:"0"`
}

// Client returns the daemon client configuration.
func (o RPCOptions) Client() turtlecoin.Config {
	return turtlecoin.Config{
		Host:    o.Host,
		Port:    o.Port,
		Timeout: o.Timeout,
		RPS:     o.RPS,
	}
}

// Engine names a storage engine.
type Engine string

const (
	EngineSQLite     Engine = "sqlite"
	EngineMySQL      Engine = "mysql"
	EnginePostgres   Engine = "postgres"
	EngineClickhouse Engine = "clickhouse"
)

// StorageOptions select the storage engine and how to reach it.
type StorageOptions struct {
	Engine        Engine        `long:"engine" env:"ENGINE" description:"storage engine" choice:"sqlite" choice:"mysql" choice:"postgres" choice:"clickhouse" default:"sqlite"`
	SQLitePath    string        `long:"sqlite-path" env:"SQLITE_PATH" description:"sqlite database file" default:"db/turtlecoin.sqlite"`
	MySQLHost     string        `long:"mysql-host" env:"MYSQL_HOST" description:"mysql host" default:"127.0.0.1"`
	MySQLPort     int           `long:"mysql-port" env:"MYSQL_PORT" description:"mysql port" default:"3306"`
	MySQLUser     string        `long:"mysql-user" env:"MYSQL_USER" description:"mysql user" default:"root"`
	MySQLPassword string        `long:"mysql-password" env:"MYSQL_PASSWORD" description:"mysql password"`
	MySQLDatabase string        `long:"mysql-database" env:"MYSQL_DATABASE" description:"mysql database" default:"turtlecoin"`
	MySQLSocket   string        `long:"mysql-socket" env:"MYSQL_SOCKET" description:"mysql unix socket, overrides host and port"`
	PostgresDSN   string        `long:"postgres-dsn" env:"POSTGRES_DSN" description:"postgres DSN"`
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"CLICKHOUSE_DSN" description:"ClickHouse DSN" default:"clickhouse://localhost:9000/default"`
	MaxOpenConns  int           `long:"max-open-conns" env:"MAX_OPEN_CONNS" description:"SQL connection pool size" default:"10"`
	ConnectTries  int           `long:"connect-tries" env:"CONNECT_TRIES" description:"storage connection attempts before giving up" default:"5"`
	ConnectDelay  time.Duration `long:"connect-delay" env:"CONNECT_DELAY" description:"delay between storage connection attempts" default:"2s"`
}

// SQL returns the sqlstore configuration for the SQL engines.
func (o StorageOptions) SQL() sqlstore.Config {
	return sqlstore.Config{
		Dialect:    sqlstore.Dialect(o.Engine),
		SQLitePath: o.SQLitePath,
		MySQL: sqlstore.MySQLConfig{
			Host:     o.MySQLHost,
			Port:     o.MySQLPort,
			User:     o.MySQLUser,
			Password: o.MySQLPassword,
			Database: o.MySQLDatabase,
			Socket:   o.MySQLSocket,
		},
		PostgresDSN:  o.PostgresDSN,
		MaxOpenConns: o.MaxOpenConns,
	}
}

// LogOptions control process logging.
type LogOptions struct {
	Level      string `long:"level" env:"LEVEL" description:"log level" default:"debug"`
	File       string `long:"file" env:"FILE" description:"also write JSON logs to this file"`
	MaxSizeMB  int    `long:"max-size-mb" env:"MAX_SIZE_MB" description:"log file size before rotation" default:"100"`
	MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" description:"rotated log files to keep" default:"5"`
	MaxAgeDays int    `long:"max-age-days" env:"MAX_AGE_DAYS" description:"days to keep rotated log files" default:"28"`
}

// Logging returns the logger configuration.
func (o LogOptions) Logging() logging.Config {
	return logging.Config{
		Level:      o.Level,
		File:       o.File,
		MaxSizeMB:  o.MaxSizeMB,
		MaxBackups: o.MaxBackups,
		MaxAgeDays: o.MaxAgeDays,
	}
}

// SyncOptions tune the synchronization engine.
type SyncOptions struct {
	UpdateInterval time.Duration `long:"update-interval" env:"UPDATE_INTERVAL" description:"delay between synced checks, after failures and after every batch" default:"5s"`
	BatchSize      uint64        `long:"batch-size" env:"BATCH_SIZE" description:"heights written between cooldowns" default:"1000"`
	Backfill       bool          `long:"backfill" env:"BACKFILL" description:"re-fetch transactions stored as placeholders"`
}
