package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"starwarsproxy/src/domain"
	"starwarsproxy/src/infra/kafka"
	"starwarsproxy/src/services/events"
)

type recordingProducer struct {
	topic    string
	messages []kafka.Message
	err      error
}

func (p *recordingProducer) Producer(messages []kafka.Message, topic string) error {
	p.topic = topic
	p.messages = append(p.messages, messages...)
	return p.err
}

var _ = Describe("DomainEventPublisher", func() {
	var (
		ctx      context.Context
		logger   *slog.Logger
		producer *recordingProducer
		event    domain.DomainEvent
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = slog.New(slog.DiscardHandler)
		producer = &recordingProducer{}
		event = domain.DomainEvent{
			Type:       domain.EventCharacterFetched,
			ID:         "1",
			Category:   domain.CategoryCharacter,
			OccurredAt: "2025-01-01T00:00:00Z",
		}
	})

	When("a producer is configured", func() {
		It("should key the message by id and set filtering headers", func() {
			// ARRANGE
			publisher := events.NewDomainEventPublisher(logger, producer, "starwars.events")

			// ACT
			err := publisher.PublishSingleEvent(ctx, event)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(producer.topic).To(Equal("starwars.events"))
			Expect(producer.messages).To(HaveLen(1))

			message := producer.messages[0]
			Expect(message.Key).To(Equal("1"))
			Expect(message.Headers).To(HaveKeyWithValue("event_type", domain.EventCharacterFetched))
			Expect(message.Headers).To(HaveKeyWithValue("entity_type", domain.CategoryCharacter))
			Expect(message.Headers).To(HaveKey("event_id"))

			var decoded domain.DomainEvent
			Expect(json.Unmarshal(message.Value, &decoded)).To(Succeed())
			Expect(decoded).To(Equal(event))
		})
	})

	When("the producer fails", func() {
		It("should return a wrapped error", func() {
			// ARRANGE
			producer.err = errors.New("broker down")
			publisher := events.NewDomainEventPublisher(logger, producer, "starwars.events")

			// ACT
			err := publisher.PublishSingleEvent(ctx, event)

			// ASSERT
			Expect(err).To(MatchError(ContainSubstring("broker down")))
		})
	})

	When("publishing is disabled", func() {
		It("should drop events silently", func() {
			// ARRANGE
			publisher := events.NewDomainEventPublisher(logger, nil, "starwars.events")

			// ACT
			err := publisher.PublishSingleEvent(ctx, event)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
