package config

import "fmt"

// MySQL 数据库配置
type MySQL struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`
	Charset  string `json:"charset" yaml:"charset"`
	MaxOpen  int    `json:"max_open" yaml:"max_open"`
	MaxIdle  int    `json:"max_idle" yaml:"max_idle"`
	LogSQL   bool   `json:"log_sql" yaml:"log_sql"`
}

func (m *MySQL) Dsn() string {
	charset := m.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	// parseTime 必须打开，否则 DATETIME 无法扫描进 time.Time
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		m.Username, m.Password, m.Host, m.Port, m.Database, charset)
}
