package forwardqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fhirhub-service/internal/app/contracts"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrPublishNacked reports that the broker refused a confirmed publish. The
// message is not on the queue; callers must record the failure.
var ErrPublishNacked = errors.New("broker nacked publish")

// Service carries forward messages through RabbitMQ. The queue is durable
// and publisher confirms are enabled so Publish returning nil means the
// broker has the message.
type Service struct {
	ch        *amqp.Channel
	log       *zap.Logger
	queueName string
	dlqName   string
	confirms  chan amqp.Confirmation
	mu        sync.Mutex
}

// NewService initializes the queue service, declares durable queues, enables
// confirms, and sets QoS.
func NewService(conn *amqp.Connection, log *zap.Logger, queueName, dlqName string, prefetch int) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	)
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		dlqName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	svc := &Service{
		ch:        ch,
		log:       log,
		queueName: queueName,
		dlqName:   dlqName,
		confirms:  ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}

	return svc, nil
}

func (s *Service) Publish(ctx context.Context, msg contracts.ForwardMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.ch.PublishWithContext(ctx,
		"",          // exchange
		s.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			Body:         body,
		},
	)
	if err != nil {
		return err
	}

	if err := awaitConfirm(ctx, s.confirms, msg.ID); err != nil {
		s.log.Error("forwardqueue.Publish broker did not confirm message",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// awaitConfirm blocks until the broker acks or nacks the outstanding publish.
// A nack means the message was refused and is not queued.
func awaitConfirm(ctx context.Context, confirms <-chan amqp.Confirmation, messageID string) error {
	select {
	case confirmation := <-confirms:
		if !confirmation.Ack {
			return fmt.Errorf("%w: message %s", ErrPublishNacked, messageID)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume delivers decoded forward messages. Undecodable deliveries go to
// the dead-letter queue.
func (s *Service) Consume(ctx context.Context) (<-chan contracts.ForwardMessage, error) {
	deliveries, err := s.ch.Consume(
		s.queueName,
		"",    // consumer tag
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return nil, err
	}

	out := make(chan contracts.ForwardMessage)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case delivery, ok := <-deliveries:
				if !ok {
					return
				}
				var msg contracts.ForwardMessage
				if err := json.Unmarshal(delivery.Body, &msg); err != nil {
					s.log.Error("forwardqueue.Consume undecodable delivery, dead-lettering",
						zap.String("message_id", delivery.MessageId),
						zap.Error(err),
					)
					s.deadLetter(ctx, delivery)
					delivery.Ack(false)
					continue
				}
				delivery.Ack(false)
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *Service) deadLetter(ctx context.Context, delivery amqp.Delivery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.ch.PublishWithContext(ctx,
		"",
		s.dlqName,
		false,
		false,
		amqp.Publishing{
			ContentType:  delivery.ContentType,
			DeliveryMode: amqp.Persistent,
			MessageId:    delivery.MessageId,
			Body:         delivery.Body,
		},
	)
	if err != nil {
		s.log.Error("forwardqueue.deadLetter publish failed",
			zap.String("message_id", delivery.MessageId),
			zap.Error(err),
		)
	}
}
