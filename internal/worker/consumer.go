package worker

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/HughSean/MiniProgram-Backend/internal/events"
)

type Config struct {
	RabbitURL string
	Exchange  string
	Queue     string
	Bindings  []string
	Prefetch  int
	DLXName   string
	DLXQueue  string
	Consumer  string
}

// errBadPayload marks deliveries that can never succeed. They are nacked
// without requeue so the broker dead-letters them instead of redelivering
// forever; transient notifier failures are requeued.
var errBadPayload = errors.New("undecodable payload")

// Consumer drains order events and turns them into notifications.
type Consumer struct {
	cfg      Config
	notifier Notifier
	log      zerolog.Logger

	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewConsumer(cfg Config, n Notifier, log zerolog.Logger) *Consumer {
	return &Consumer{cfg: cfg, notifier: n, log: log.With().Str("component", "worker").Logger()}
}

func (c *Consumer) Connect() error {
	conn, err := amqp.Dial(c.cfg.RabbitURL)
	if err != nil {
		return fmt.Errorf("rabbit dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel failed: %w", err)
	}

	args := amqp.Table{}
	if c.cfg.DLXName != "" {
		args["x-dead-letter-exchange"] = c.cfg.DLXName
	}
	q, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, args)
	if err != nil {
		closeBoth(ch, conn)
		return fmt.Errorf("declare queue failed: %w", err)
	}
	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		closeBoth(ch, conn)
		return fmt.Errorf("declare exchange failed: %w", err)
	}
	for _, key := range c.cfg.Bindings {
		if err := ch.QueueBind(q.Name, key, c.cfg.Exchange, false, nil); err != nil {
			closeBoth(ch, conn)
			return fmt.Errorf("bind key %s failed: %w", key, err)
		}
	}
	if c.cfg.DLXName != "" {
		if err := ch.ExchangeDeclare(c.cfg.DLXName, "topic", true, false, false, false, nil); err != nil {
			closeBoth(ch, conn)
			return fmt.Errorf("declare dlx failed: %w", err)
		}
		if _, err := ch.QueueDeclare(c.cfg.DLXQueue, true, false, false, false, nil); err != nil {
			closeBoth(ch, conn)
			return fmt.Errorf("declare dlq failed: %w", err)
		}
		if err := ch.QueueBind(c.cfg.DLXQueue, "#", c.cfg.DLXName, false, nil); err != nil {
			closeBoth(ch, conn)
			return fmt.Errorf("bind dlq failed: %w", err)
		}
	}

	if c.cfg.Prefetch <= 0 {
		c.cfg.Prefetch = 8
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		closeBoth(ch, conn)
		return fmt.Errorf("set qos failed: %w", err)
	}

	c.conn = conn
	c.ch = ch
	return nil
}

func closeBoth(ch *amqp.Channel, conn *amqp.Connection) {
	_ = ch.Close()
	_ = conn.Close()
}

func (c *Consumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.cfg.Queue, c.cfg.Consumer, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume failed: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, open := <-msgs:
			if !open {
				return nil
			}
			if err := c.handle(d); err != nil {
				if errors.Is(err, errBadPayload) {
					c.log.Error().Err(err).Str("key", d.RoutingKey).Msg("drop poison message")
					_ = d.Nack(false, false)
				} else {
					c.log.Warn().Err(err).Str("key", d.RoutingKey).Msg("handle failed, nack and requeue")
					_ = d.Nack(false, true)
				}
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handle(d amqp.Delivery) error {
	switch d.RoutingKey {
	case events.RKOrderCreated:
		ev, err := events.Unmarshal[events.OrderChanged](d.Body)
		if err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		return c.notifier.Notify("Booking created",
			fmt.Sprintf("Order %s on court %s, %s, cost %.2f", ev.OrderID, courtLabel(ev), HumanTimeRange(ev.Start, ev.End), ev.Cost))

	case events.RKOrderUpdated:
		ev, err := events.Unmarshal[events.OrderChanged](d.Body)
		if err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		return c.notifier.Notify("Booking changed",
			fmt.Sprintf("Order %s moved to %s, new cost %.2f", ev.OrderID, HumanTimeRange(ev.Start, ev.End), ev.Cost))

	case events.RKOrderCancelled:
		ev, err := events.Unmarshal[events.OrderSimple](d.Body)
		if err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		return c.notifier.Notify("Booking cancelled",
			fmt.Sprintf("Order %s has been cancelled.", ev.OrderID))

	default:
		c.log.Debug().Str("key", d.RoutingKey).Msg("skip unknown key")
	}
	return nil
}

func courtLabel(ev events.OrderChanged) string {
	if ev.CourtName != "" {
		return ev.CourtName
	}
	return ev.CourtID
}
