package config

// RocketMQConfig 协作方事件消费配置
type RocketMQConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	ConsumerGroup string `yaml:"consumer_group"`
	Topic         string `yaml:"topic"`
}

func ProvideRocketMQConfig(cfg *Config) *RocketMQConfig {
	if cfg.RocketMQ == nil {
		return &RocketMQConfig{}
	}
	return cfg.RocketMQ
}
