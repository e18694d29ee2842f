// Package eventsvc publishes selection changes of the year context to a RabbitMQ fanout exchange.
package eventsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/NathJo212/Overd-OSE-sub001/core"
	"github.com/NathJo212/Overd-OSE-sub001/core/yearctx"
)

var (
	NowFunc = time.Now // mockable

	publishTimeout = 5 * time.Second
)

// YearChanged is the message published whenever a session selects another academic year.
type YearChanged struct {
	SessionID string    `json:"session_id"`
	Previous  int       `json:"previous"`
	Selected  int       `json:"selected"`
	At        time.Time `json:"at"`
}

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	logger   core.Logger
}

// NewAMQPPublisher dials the broker and declares the durable fanout exchange.
func NewAMQPPublisher(conf *core.Config, logger core.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(conf.Events.AMQPURL)
	if err != nil {
		return nil, errors.Wrap(err, "dialing broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "opening channel")
	}

	p, err := newPublisher(ch, conf.Events.Exchange, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, logger core.Logger) (*AMQPPublisher, error) {
	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeFanout,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		return nil, errors.Wrapf(err, "declaring exchange %q", exchange)
	}
	return &AMQPPublisher{ch: ch, exchange: exchange, logger: logger}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event YearChanged) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshalling event")
	}
	err = p.ch.PublishWithContext(ctx, p.exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.At,
		Type:         "year.changed",
		Body:         body,
	})
	return errors.Wrap(err, "publishing event")
}

// YearChanged publishes a change of a session's store; it is meant to be used as a yearctx.ChangeHook.
// Failures are logged, a store mutation never fails because of the broker.
func (p *AMQPPublisher) YearChanged(sessionID string, change yearctx.Change) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	event := YearChanged{
		SessionID: sessionID,
		Previous:  change.Previous,
		Selected:  change.Selected,
		At:        NowFunc().UTC(),
	}
	if err := p.Publish(ctx, event); err != nil {
		p.logger.Error(fmt.Sprintf("publishing year change: %v", err), err, core.SessionInfo{ID: sessionID})
	}
}

func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return errors.Wrap(err, "closing channel")
	}
	if p.conn != nil {
		return errors.Wrap(p.conn.Close(), "closing connection")
	}
	return nil
}
