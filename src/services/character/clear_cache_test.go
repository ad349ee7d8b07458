package character_test

import (
	"context"
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"starwarsproxy/src/cache"
	"starwarsproxy/src/services/character"
	"starwarsproxy/src/test_artefacts/fakes"
)

var _ = Describe("Cache invalidation", func() {
	var (
		ctx              context.Context
		fakeCache        *fakes.Cache
		characterService *character.CharacterService
	)

	BeforeEach(func() {
		ctx = context.Background()
		fakeCache = fakes.NewCache()
		characterService = character.NewCharacterService(
			fakeCache,
			fakes.NewCharacterStore(),
			fakes.NewCharacterSource(),
			fakes.NewMovieSource(),
			fakes.NewEventPublisher(),
			0,
			slog.New(slog.DiscardHandler),
		)

		fakeCache.Seed("character:1", []byte(`{"id":"1"}`))
		fakeCache.Seed("characters:page:1", []byte(`[]`))
		fakeCache.Seed("movie:11", []byte(`{}`))
	})

	Context("ClearCache", func() {
		It("should remove characters and pages but keep other keys", func() {
			// ACT
			err := characterService.ClearCache(ctx)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(fakeCache.Prefixes()).To(ConsistOf("character:", "characters:page:"))

			_, err = fakeCache.Memory.Get(ctx, "character:1")
			Expect(err).To(MatchError(cache.ErrCacheMiss))
			_, err = fakeCache.Memory.Get(ctx, "characters:page:1")
			Expect(err).To(MatchError(cache.ErrCacheMiss))
			_, err = fakeCache.Memory.Get(ctx, "movie:11")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should attempt both prefixes and combine the failures", func() {
			// ARRANGE
			fakeCache.DeleteErr = errors.New("redis down")

			// ACT
			err := characterService.ClearCache(ctx)

			// ASSERT
			Expect(err).To(MatchError(ContainSubstring("character:")))
			Expect(err).To(MatchError(ContainSubstring("characters:page:")))
			Expect(fakeCache.Prefixes()).To(HaveLen(2))
		})
	})

	Context("EvictCharacter", func() {
		It("should delete only that character", func() {
			// ACT
			err := characterService.EvictCharacter(ctx, "1")

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(fakeCache.Deletes()).To(Equal([]string{"character:1"}))
			_, err = fakeCache.Memory.Get(ctx, "characters:page:1")
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
