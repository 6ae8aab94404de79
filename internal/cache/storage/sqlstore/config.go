package sqlstore

import (
	"fmt"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
)

// Dialect names a supported SQL engine.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
)

// Config selects the SQL engine and how to reach it.
type Config struct {
	Dialect      Dialect
	SQLitePath   string
	MySQL        MySQLConfig
	PostgresDSN  string
	MaxOpenConns int
	MaxIdleConns int
}

// MySQLConfig holds the connection parameters of a MySQL server.
// Socket takes precedence over Host and Port when set.
type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Socket   string
}

// DSN renders the go-sql-driver DSN for the configuration.
func (c MySQLConfig) DSN() (string, error) {
	if c.Database == "" {
		return "", fmt.Errorf("mysql database is required")
	}

	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.DBName = c.Database
	if c.Socket != "" {
		cfg.Net = "unix"
		cfg.Addr = c.Socket
	} else {
		if c.Host == "" {
			return "", fmt.Errorf("mysql host is required")
		}
		port := c.Port
		if port == 0 {
			port = 3306
		}
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(port))
	}
	cfg.Params = map[string]string{"charset": "utf8mb4"}

	return cfg.FormatDSN(), nil
}

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=off", path)
}
