package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/multierr"
)

type KafkaClient struct {
	consumer  sarama.ConsumerGroup
	producer  sarama.SyncProducer
	brokers   []string
	batchSize int
	logger    *slog.Logger
}

type Message struct {
	Key      string
	Value    []byte
	Headers  map[string]string
	internal *sarama.ConsumerMessage
}

type Handler func(messages []Message) error

// NewKafkaClient cria sempre o producer; o consumer group só é criado quando
// groupID não for vazio.
func NewKafkaClient(brokerList []string, groupID string, batchSize int, logger *slog.Logger) (*KafkaClient, error) {
	if len(brokerList) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	if batchSize <= 0 {
		batchSize = 1
	}

	config := sarama.NewConfig()
	config.Version = sarama.V2_8_0_0

	// Consumer config. Invalidações são pequenas, lotes curtos bastam.
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Group.Session.Timeout = 30 * time.Second
	config.Consumer.Group.Heartbeat.Interval = 10 * time.Second
	config.Consumer.MaxProcessingTime = 10 * time.Second
	config.Consumer.MaxWaitTime = 100 * time.Millisecond
	config.ChannelBufferSize = batchSize * 2

	// Producer config - baixa latência, eventos são best-effort
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Flush.Frequency = 50 * time.Millisecond
	config.Producer.MaxMessageBytes = 1024 * 1024 // 1MB max por mensagem

	client := &KafkaClient{
		brokers:   brokerList,
		batchSize: batchSize,
		logger:    logger,
	}

	if groupID != "" {
		consumer, err := sarama.NewConsumerGroup(brokerList, groupID, config)
		if err != nil {
			return nil, fmt.Errorf("failed to create consumer group: %w", err)
		}
		client.consumer = consumer
	}

	producer, err := sarama.NewSyncProducer(brokerList, config)
	if err != nil {
		if client.consumer != nil {
			_ = client.consumer.Close()
		}
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}
	client.producer = producer

	logger.Info("Kafka client initialized", "brokers", brokerList, "group_id", groupID, "batch_size", batchSize)

	return client, nil
}

// Consumer bloqueia consumindo o tópico até o contexto ser cancelado.
func (k *KafkaClient) Consumer(ctx context.Context, handler Handler, topic string) error {
	if k.consumer == nil {
		return fmt.Errorf("kafka client created without consumer group")
	}

	consumerHandler := &consumerGroupHandler{
		handler:   handler,
		batchSize: k.batchSize,
		logger:    k.logger,
	}

	for {
		select {
		case <-ctx.Done():
			k.logger.Info("Kafka consumer context cancelled", "topic", topic)
			return nil
		default:
			if err := k.consumer.Consume(ctx, []string{topic}, consumerHandler); err != nil {
				k.logger.Error("Error consuming from topic", "topic", topic, "error", err)
				time.Sleep(5 * time.Second) // Retry delay
				continue
			}
		}
	}
}

func (k *KafkaClient) Producer(messages []Message, topic string) error {
	if len(messages) == 0 {
		return nil
	}

	kafkaMessages := make([]*sarama.ProducerMessage, 0, len(messages))
	for _, msg := range messages {
		headers := make([]sarama.RecordHeader, 0, len(msg.Headers))
		for key, value := range msg.Headers {
			headers = append(headers, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
		}

		kafkaMessages = append(kafkaMessages, &sarama.ProducerMessage{
			Topic:   topic,
			Key:     sarama.StringEncoder(msg.Key),
			Value:   sarama.ByteEncoder(msg.Value),
			Headers: headers,
		})
	}

	if err := k.producer.SendMessages(kafkaMessages); err != nil {
		var sendErr error
		if producerErrors, ok := err.(sarama.ProducerErrors); ok {
			for _, producerErr := range producerErrors {
				sendErr = multierr.Append(sendErr, producerErr.Err)
			}
		} else {
			sendErr = err
		}
		return fmt.Errorf("batch send to topic %s failed: %w", topic, sendErr)
	}

	k.logger.Debug("Batch sent", "topic", topic, "messages", len(kafkaMessages))
	return nil
}

func (k *KafkaClient) Close() error {
	var err error

	if k.consumer != nil {
		if closeErr := k.consumer.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close consumer: %w", closeErr))
		}
	}

	if k.producer != nil {
		if closeErr := k.producer.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close producer: %w", closeErr))
		}
	}

	return err
}

// consumerGroupHandler implementa sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	handler   Handler
	batchSize int
	logger    *slog.Logger
}

func (h *consumerGroupHandler) Setup(session sarama.ConsumerGroupSession) error {
	h.logger.Debug("Kafka consumer group session setup", "batch_size", h.batchSize)
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	h.logger.Debug("Kafka consumer group session cleanup")
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	batchTimeout := 500 * time.Millisecond

	messages := make([]Message, 0, h.batchSize)
	timer := time.NewTimer(batchTimeout)
	defer timer.Stop()

	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				// Channel closed, process remaining messages
				h.processBatch(session, messages)
				return nil
			}

			messages = append(messages, toMessage(message))

			if len(messages) >= h.batchSize {
				h.processBatch(session, messages)
				messages = messages[:0]
				timer.Reset(batchTimeout)
			}

		case <-timer.C:
			h.processBatch(session, messages)
			messages = messages[:0]
			timer.Reset(batchTimeout)

		case <-session.Context().Done():
			h.processBatch(session, messages)
			return nil
		}
	}
}

func (h *consumerGroupHandler) processBatch(session sarama.ConsumerGroupSession, messages []Message) {
	if len(messages) == 0 {
		return
	}

	if err := h.handler(messages); err != nil {
		// Sem MarkMessage: o lote volta no próximo rebalance.
		h.logger.Error("Handler error for batch", "messages", len(messages), "error", err)
		return
	}

	for _, msg := range messages {
		if msg.internal != nil {
			session.MarkMessage(msg.internal, "")
		}
	}
}

func toMessage(message *sarama.ConsumerMessage) Message {
	headers := make(map[string]string, len(message.Headers))
	for _, header := range message.Headers {
		if header != nil {
			headers[string(header.Key)] = string(header.Value)
		}
	}

	return Message{
		Key:      string(message.Key),
		Value:    message.Value,
		Headers:  headers,
		internal: message,
	}
}
