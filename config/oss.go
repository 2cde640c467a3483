package config

type OssConfig struct {
	Enabled         bool   `json:"enabled" yaml:"enabled"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
	Region          string `json:"region" yaml:"region"`
	Bucket          string `json:"bucket" yaml:"bucket"`
	AccessKeyID     string `json:"ak" yaml:"ak"`
	AccessKeySecret string `json:"sk" yaml:"sk"`
}

func ProvideOssConfig(cfg *Config) *OssConfig {
	if cfg.Oss == nil {
		return &OssConfig{}
	}
	return cfg.Oss
}
