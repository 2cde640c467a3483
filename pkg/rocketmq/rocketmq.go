package rocketmq

import (
	"Lumen/config"
	"Lumen/pkg/log"
	"time"

	rmq_client "github.com/apache/rocketmq-clients/golang/v5"
	"github.com/apache/rocketmq-clients/golang/v5/credentials"
)

// Receive 单次等待的最长时间
const awaitDuration = 5 * time.Second

// NewSimpleConsumer 未开启时返回 (nil, nil)，调用方据此跳过消费
func NewSimpleConsumer(cfg *config.RocketMQConfig) (rmq_client.SimpleConsumer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	c, err := rmq_client.NewSimpleConsumer(&rmq_client.Config{
		Endpoint:      cfg.Endpoint,
		ConsumerGroup: cfg.ConsumerGroup,
		Credentials: &credentials.SessionCredentials{
			AccessKey:    cfg.AccessKey,
			AccessSecret: cfg.SecretKey,
		},
	},
		rmq_client.WithAwaitDuration(awaitDuration),
		rmq_client.WithSubscriptionExpressions(map[string]*rmq_client.FilterExpression{
			cfg.Topic: rmq_client.SUB_ALL,
		}),
	)
	if err != nil {
		return nil, err
	}
	log.L.Info("init rocketmq consumer success")
	return c, nil
}
