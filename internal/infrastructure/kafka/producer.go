package kafka

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

var errNoBrokers = errors.New("kafka: no brokers configured")

// Producer публикует события об изменении продуктов в топик Kafka.
// Ключ сообщения — event_id, поэтому повторная публикация события попадает в ту же партицию.
type Producer struct {
	writer *kafka.Writer
	dialer *kafka.Dialer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
		},
		dialer: &kafka.Dialer{Timeout: 10 * time.Second},
		logger: logger,
		cfg:    cfg,
	}
}

// WriteRawMessage синхронно отправляет JSON-payload события.
func (p *Producer) WriteRawMessage(ctx context.Context, req *usecase.WriteRawMessageReq) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(req.Key),
		Value: req.Payload,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	})
	if err != nil {
		p.logger.Warnf("kafka publish failed, topic=%s key=%s: %v", p.cfg.Topic, req.Key, err)
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// EnsureTopic создаёт топик через контроллер кластера, если брокер его ещё не знает.
func (p *Producer) EnsureTopic(ctx context.Context) error {
	if len(p.cfg.Brokers) == 0 {
		return e.Wrap(whereami.WhereAmI(), errNoBrokers)
	}

	conn, err := p.dial(ctx, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	if partitions, err := conn.ReadPartitions(p.cfg.Topic); err == nil && len(partitions) > 0 {
		return nil
	}

	controller, err := conn.Controller()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	ctrl, err := p.dial(ctx, net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer ctrl.Close()

	err = ctrl.CreateTopics(kafka.TopicConfig{
		Topic:             p.cfg.Topic,
		NumPartitions:     p.cfg.Partitions,
		ReplicationFactor: p.cfg.ReplicationFactor,
	})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	p.logger.Infof("kafka topic %s ready (%d partitions)", p.cfg.Topic, p.cfg.Partitions)
	return nil
}

func (p *Producer) dial(ctx context.Context, addr string) (*kafka.Conn, error) {
	conn, err := p.dialer.DialContext(ctx, p.cfg.NetworkMode, addr)
	if err != nil {
		return nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	return conn, nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
