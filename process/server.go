package process

import (
	"Lumen/config"
	"Lumen/pkg/log"
	"context"
	"reflect"
	"sync"
	"time"

	rmq_client "github.com/apache/rocketmq-clients/golang/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// maximum number of messages received at one time
	maxMessageNum int32 = 16
	// invisibleDuration should > 20s
	invisibleDuration = time.Second * 20
	// receive concurrency
	receiveConcurrency = 4
)

type IServer interface {
	Setup(ctx context.Context) error
	Init() error
}

// SubServers 后台任务列表
type SubServers struct {
	LeaderboardJob *LeaderboardJob // 定时生成排行榜
	EventSubscribe *EventSubscribe // 协作方事件
}

type Server struct {
	items      []IServer
	once       sync.Once
	MqConsumer rmq_client.SimpleConsumer
	Topic      string
	SubServers
}

// NewServer mqConsumer 为 nil 时只跑定时任务
func NewServer(servers *SubServers, mqConsumer rmq_client.SimpleConsumer, mqConf *config.RocketMQConfig) *Server {
	s := &Server{
		MqConsumer: mqConsumer,
		Topic:      mqConf.Topic,
		SubServers: *servers,
	}

	s.binds(servers)
	return s
}

func (c *Server) binds(servers *SubServers) {
	elem := reflect.ValueOf(servers).Elem()
	for i := 0; i < elem.NumField(); i++ {
		if v, ok := elem.Field(i).Interface().(IServer); ok && !elem.Field(i).IsNil() {
			c.items = append(c.items, v)
		}
	}
}

// Start 启动后台任务，全部挂在 eg 上，ctx 取消后退出
func (c *Server) Start(eg *errgroup.Group, ctx context.Context) error {
	var err error
	c.once.Do(func() {
		for _, process := range c.items {
			if err = process.Init(); err != nil {
				return
			}
		}

		for _, process := range c.items {
			serv := process
			eg.Go(func() error {
				return serv.Setup(ctx)
			})
		}

		if c.MqConsumer == nil || c.EventSubscribe == nil {
			log.L.Info("rocketmq consumer disabled")
			return
		}
		if err = c.MqConsumer.Start(); err != nil {
			return
		}

		eg.Go(func() error {
			<-ctx.Done()
			log.L.Info("graceful stop rocketmq consumer")
			return c.MqConsumer.GracefulStop()
		})

		log.L.Info("start receive message", zap.String("topic", c.Topic))
		for i := 0; i < receiveConcurrency; i++ {
			eg.Go(func() error {
				c.receive(ctx)
				return nil
			})
		}
	})
	return err
}

func (c *Server) receive(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// 没有新消息时也会返回 error，直接进入下一轮
		mvs, _ := c.MqConsumer.Receive(ctx, maxMessageNum, invisibleDuration)
		for _, mv := range mvs {
			if mv == nil {
				continue
			}
			if err := c.EventSubscribe.handle(ctx, mv.GetBody()); err != nil {
				// 处理失败不 Ack，invisibleDuration 之后重投
				log.L.Warn("handle engagement event failed",
					zap.String("message_id", mv.GetMessageId()),
					zap.Error(err),
				)
				continue
			}
			if err := c.MqConsumer.Ack(ctx, mv); err != nil {
				log.L.Error("ack message error", zap.Error(err))
			}
		}
	}
}
