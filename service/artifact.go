package service

import (
	"Lumen/config"
	"Lumen/dao/cache"
	"Lumen/models"
	osspkg "Lumen/pkg/oss"
	"bytes"
	"context"
	"fmt"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
)

// ArtifactPublisher 排行榜静态产物的一个投递目标
type ArtifactPublisher interface {
	Put(ctx context.Context, window models.WindowType, body []byte) error
	Name() string
}

var _ ArtifactPublisher = (*cache.LeaderboardStorage)(nil)
var _ ArtifactPublisher = (*OssArtifactPublisher)(nil)

// OssArtifactPublisher 把榜单 JSON 写到 <prefix>/<window>.json
type OssArtifactPublisher struct {
	Client *oss.Client
	Bucket string
	Prefix string
}

// NewOssArtifactPublisher 未开启 OSS 时返回 nil
func NewOssArtifactPublisher(conf *config.OssConfig, ledger *config.Ledger) *OssArtifactPublisher {
	if conf == nil || !conf.Enabled {
		return nil
	}
	return &OssArtifactPublisher{
		Client: osspkg.NewClient(conf),
		Bucket: conf.Bucket,
		Prefix: ledger.ArtifactPrefix,
	}
}

func (o *OssArtifactPublisher) Put(ctx context.Context, window models.WindowType, body []byte) error {
	_, err := o.Client.PutObject(ctx, &oss.PutObjectRequest{
		Bucket:      oss.Ptr(o.Bucket),
		Key:         oss.Ptr(o.objectKey(window)),
		Body:        bytes.NewReader(body),
		ContentType: oss.Ptr("application/json"),
	})
	return err
}

func (o *OssArtifactPublisher) Name() string {
	return "oss"
}

// leaderboard/weekly.json
func (o *OssArtifactPublisher) objectKey(window models.WindowType) string {
	return fmt.Sprintf("%s/%s.json", o.Prefix, window.Lower())
}

func NewArtifactPublishers(storage *cache.LeaderboardStorage, ossPub *OssArtifactPublisher) []ArtifactPublisher {
	publishers := []ArtifactPublisher{storage}
	if ossPub != nil {
		publishers = append(publishers, ossPub)
	}
	return publishers
}
