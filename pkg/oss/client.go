package oss

import (
	"Lumen/config"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
)

// NewClient 配置了 ak/sk 时使用静态凭证，否则从 OSS_ACCESS_KEY_ID 等环境变量读取
func NewClient(conf *config.OssConfig) *oss.Client {
	var provider credentials.CredentialsProvider
	if conf.AccessKeyID != "" && conf.AccessKeySecret != "" {
		provider = credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret)
	} else {
		provider = credentials.NewEnvironmentVariableCredentialsProvider()
	}

	cfg := oss.LoadDefaultConfig().WithCredentialsProvider(provider).
		WithEndpoint(conf.Endpoint).WithRegion(conf.Region)
	return oss.NewClient(cfg)
}
