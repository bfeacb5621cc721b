package mq

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"StampCard/config"
)

var (
	conn    *amqp.Connection
	connMu  sync.RWMutex
	initErr error
	once    sync.Once
)

// 集满事件的拓扑
const (
	ExchangeLoyalty         = "loyalty.events"
	QueueCycleCompleted     = "loyalty.cycle_completed"
	RoutingKeyCycleComplete = "cycle.completed"
)

func Init() error {
	once.Do(func() {
		url := config.Cfg.GetRabbitMQURL()

		var c *amqp.Connection
		c, initErr = amqp.Dial(url)
		if initErr != nil {
			return
		}

		connMu.Lock()
		conn = c
		connMu.Unlock()

		initErr = declareTopology()
	})

	return initErr
}

func Connection() *amqp.Connection {
	connMu.RLock()
	defer connMu.RUnlock()
	return conn
}

// declareTopology 声明交换机和队列并绑定，幂等
func declareTopology() error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		ExchangeLoyalty,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	q, err := ch.QueueDeclare(
		QueueCycleCompleted,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	return ch.QueueBind(q.Name, RoutingKeyCycleComplete, ExchangeLoyalty, false, nil)
}

func Close(ctx context.Context) error {
	connMu.Lock()
	defer connMu.Unlock()

	if conn == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		conn = nil
		return err
	}
}
