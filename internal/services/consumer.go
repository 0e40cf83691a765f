package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"alfredoptarigan/resume-shortlister/internal/models"
)

type amqpPublisher struct {
	conn     *amqp.Connection
	exchange string
}

// NewAMQPPublisher declares the durable topic exchange updates are sent to.
// Routing keys have the form "screening.<job id>".
func NewAMQPPublisher(conn *amqp.Connection, exchange string) (UpdatePublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &amqpPublisher{conn: conn, exchange: exchange}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, update models.ScreeningUpdate) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	return ch.Publish(
		p.exchange,
		fmt.Sprintf("screening.%s", update.JobID),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   update.Timestamp,
			Body:        body,
		},
	)
}

// DecodeScreeningJob parses a queue message. A job without an id gets one so its
// updates can still be routed.
func DecodeScreeningJob(body []byte) (models.ScreeningJob, error) {
	var job models.ScreeningJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, fmt.Errorf("failed to decode screening job: %w", err)
	}
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	return job, nil
}

type QueueConsumer struct {
	conn      *amqp.Connection
	queue     string
	worker    Worker
	publisher UpdatePublisher
	logger    *zap.Logger
}

func NewQueueConsumer(conn *amqp.Connection, queue string, worker Worker, publisher UpdatePublisher, logger *zap.Logger) *QueueConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueConsumer{
		conn:      conn,
		queue:     queue,
		worker:    worker,
		publisher: publisher,
		logger:    logger,
	}
}

// Run consumes screening jobs until ctx is cancelled or the broker closes the
// delivery channel. The worker is stopped before the channel closes so that
// unfinished jobs can still be requeued on it.
func (c *QueueConsumer) Run(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()
	defer c.worker.Stop()

	if _, err := ch.QueueDeclare(
		c.queue, // queue name
		true,    // durable
		false,   // auto-delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	msgs, err := ch.Consume(
		c.queue, // queue name
		"",      // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to consume queue: %w", err)
	}

	c.logger.Info("consuming screening jobs", zap.String("queue", c.queue))

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.HandleDelivery(ctx, msg)
		}
	}
}

// HandleDelivery hands a decoded job to the worker. The message is acked once
// the job has been processed and requeued if the worker stops first.
// Undecodable messages are dropped.
func (c *QueueConsumer) HandleDelivery(ctx context.Context, msg amqp.Delivery) {
	job, err := DecodeScreeningJob(msg.Body)
	if err != nil {
		c.logger.Warn("dropping malformed screening job", zap.Error(err))
		c.publishFailure(ctx, job.ID, "malformed screening job")
		if err := msg.Nack(false, false); err != nil {
			c.logger.Warn("failed to nack message", zap.Error(err))
		}
		return
	}

	queued := QueuedJob{
		Job:     job,
		Ack:     func() error { return msg.Ack(false) },
		Requeue: func() error { return msg.Nack(false, true) },
	}
	if !c.worker.EnqueueJob(queued) {
		if err := queued.Requeue(); err != nil {
			c.logger.Warn("failed to requeue message", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
}

func (c *QueueConsumer) publishFailure(ctx context.Context, jobID, message string) {
	if jobID == "" {
		return
	}
	err := c.publisher.Publish(ctx, models.ScreeningUpdate{
		JobID:     jobID,
		Status:    models.StatusFailed,
		Message:   message,
		Timestamp: time.Now(),
	})
	if err != nil {
		c.logger.Warn("failed to publish update", zap.String("job_id", jobID), zap.Error(err))
	}
}
