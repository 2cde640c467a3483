package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 配置信息
type Config struct {
	App      *App            `json:"app" yaml:"app"`
	Redis    *Redis          `json:"redis" yaml:"redis"`
	MySQL    *MySQL          `json:"mysql" yaml:"mysql"`
	Jwt      *Jwt            `json:"jwt" yaml:"jwt"`
	Oss      *OssConfig      `json:"oss" yaml:"oss"`
	Server   *Server         `json:"server" yaml:"server"`
	RocketMQ *RocketMQConfig `json:"rocketmq" yaml:"rocketmq"`
	Ledger   *Ledger         `json:"ledger" yaml:"ledger"`
}

type Server struct {
	Http int `json:"http" yaml:"http"`
}

func New(filename string) *Config {
	content, err := os.ReadFile(filename)
	if err != nil {
		panic(err)
	}

	conf, err := Parse(content)
	if err != nil {
		panic(err)
	}
	return conf
}

// Parse 解析 yaml 内容并补齐默认值
func Parse(content []byte) (*Config, error) {
	var conf Config
	if err := yaml.Unmarshal(content, &conf); err != nil {
		return nil, fmt.Errorf("解析 config.yaml 读取错误: %w", err)
	}
	if conf.App == nil {
		conf.App = &App{Env: "dev"}
	}
	if conf.Server == nil {
		conf.Server = &Server{Http: 8080}
	}
	if conf.Ledger == nil {
		conf.Ledger = &Ledger{}
	}
	conf.Ledger.applyDefaults()
	return &conf, nil
}

// Debug 调试模式
func (c *Config) Debug() bool {
	return c.App.Debug
}
