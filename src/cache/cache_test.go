package cache_test

import (
	"context"
	"errors"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"starwarsproxy/src/cache"
	"starwarsproxy/src/test_artefacts/fakes"
)

type payload struct {
	Name  string   `json:"name"`
	Films []string `json:"films"`
}

var _ = Describe("Lookup and Store", func() {
	var (
		ctx       context.Context
		fakeCache *fakes.Cache
		logger    *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		fakeCache = fakes.NewCache()
		logger = slog.New(slog.DiscardHandler)
	})

	When("the key was never written", func() {
		It("should report a miss", func() {
			// ACT
			value, found := cache.Lookup[payload](ctx, fakeCache, logger, "character:1")

			// ASSERT
			Expect(found).To(BeFalse())
			Expect(value).To(BeZero())
		})
	})

	When("the key holds a value written by Store", func() {
		It("should decode it back", func() {
			// ARRANGE
			expected := payload{Name: "Luke Skywalker", Films: []string{"https://swapi.dev/api/films/1/"}}
			Expect(cache.Store(ctx, fakeCache, logger, "character:1", expected, time.Minute)).To(Succeed())

			// ACT
			value, found := cache.Lookup[payload](ctx, fakeCache, logger, "character:1")

			// ASSERT
			Expect(found).To(BeTrue())
			Expect(value).To(Equal(expected))
			Expect(fakeCache.LastTTL()).To(Equal(time.Minute))
		})
	})

	When("the stored value is an empty collection", func() {
		It("should be a hit, not a miss", func() {
			// ARRANGE
			Expect(cache.Store(ctx, fakeCache, logger, "characters:page:99", []payload{}, time.Minute)).To(Succeed())

			// ACT
			value, found := cache.Lookup[[]payload](ctx, fakeCache, logger, "characters:page:99")

			// ASSERT
			Expect(found).To(BeTrue())
			Expect(value).To(BeEmpty())
		})
	})

	When("the stored payload is malformed", func() {
		It("should treat it as a miss", func() {
			// ARRANGE
			fakeCache.Seed("character:1", []byte("{not json"))

			// ACT
			value, found := cache.Lookup[payload](ctx, fakeCache, logger, "character:1")

			// ASSERT
			Expect(found).To(BeFalse())
			Expect(value).To(BeZero())
		})
	})

	When("the backend fails", func() {
		It("Lookup should treat it as a miss", func() {
			// ARRANGE
			fakeCache.GetErr = errors.New("connection refused")

			// ACT
			_, found := cache.Lookup[payload](ctx, fakeCache, logger, "character:1")

			// ASSERT
			Expect(found).To(BeFalse())
		})

		It("Store should return the error without panicking", func() {
			// ARRANGE
			fakeCache.SetErr = errors.New("connection refused")

			// ACT
			err := cache.Store(ctx, fakeCache, logger, "character:1", payload{Name: "Leia"}, time.Minute)

			// ASSERT
			Expect(err).To(MatchError(ContainSubstring("connection refused")))
		})
	})
})
