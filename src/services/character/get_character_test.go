package character_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"starwarsproxy/src/domain"
	"starwarsproxy/src/domain/entities"
	"starwarsproxy/src/services/character"
	"starwarsproxy/src/test_artefacts/fakes"
	"starwarsproxy/src/test_artefacts/stubs"
)

var _ = Describe("GetCharacter", func() {
	var (
		ctx              context.Context
		fakeCache        *fakes.Cache
		store            *fakes.CharacterStore
		source           *fakes.CharacterSource
		movies           *fakes.MovieSource
		publisher        *fakes.EventPublisher
		characterService *character.CharacterService
	)

	newHopeURL := "https://swapi.dev/api/films/1/"
	empireURL := "https://swapi.dev/api/films/2/"
	jediURL := "https://swapi.dev/api/films/3/"
	unmappedURL := "https://swapi.dev/api/films/7/"

	BeforeEach(func() {
		ctx = context.Background()
		fakeCache = fakes.NewCache()
		store = fakes.NewCharacterStore()
		source = fakes.NewCharacterSource()
		movies = fakes.NewMovieSource()
		publisher = fakes.NewEventPublisher()

		movies.Seed(newHopeURL, stubs.NewMovieDetailsStub().WithID(11).Get())
		movies.Seed(empireURL, stubs.NewMovieDetailsStub().WithID(5).Get())
		movies.Seed(jediURL, stubs.NewMovieDetailsStub().WithID(1).Get())

		characterService = character.NewCharacterService(
			fakeCache, store, source, movies, publisher, 30*time.Minute, slog.New(slog.DiscardHandler),
		)
	})

	Context("cache hit", func() {
		It("should short-circuit store and upstream", func() {
			// ARRANGE
			cached := stubs.NewCharacterStub().WithID("1").Get()
			payload, _ := json.Marshal(cached)
			fakeCache.Seed(character.CharacterKey("1"), payload)

			// ACT
			result, err := characterService.GetCharacter(ctx, "1")

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeComparableTo(&cached))
			Expect(store.FindCalls()).To(BeEmpty())
			Expect(source.CharacterCalls()).To(BeEmpty())
			Expect(fakeCache.Sets()).To(BeEmpty())
		})
	})

	Context("cache miss and store hit", func() {
		It("should return the stored character and write it to the cache once", func() {
			// ARRANGE
			stored := stubs.NewCharacterStub().WithID("1").
				WithMovieDetails(stubs.NewMovieDetailsStub().WithID(11).Get()).
				Get()
			store.Seed(stored)

			// ACT
			result, err := characterService.GetCharacter(ctx, "1")

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeComparableTo(&stored))
			Expect(fakeCache.Sets()).To(Equal([]string{"character:1"}))
			Expect(fakeCache.LastTTL()).To(Equal(30 * time.Minute))
			Expect(source.CharacterCalls()).To(BeEmpty())
			Expect(movies.Calls()).To(BeEmpty())
			Expect(store.SaveCalls()).To(BeEmpty())
		})
	})

	Context("full miss", func() {
		It("should fetch, enrich with one batch and write back to store and cache", func() {
			// ARRANGE
			upstream := stubs.NewCharacterStub().WithID("1").WithFilms(newHopeURL, empireURL).Get()
			source.SeedCharacter(upstream)

			// ACT
			result, err := characterService.GetCharacter(ctx, "1")

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ID).To(Equal("1"))
			Expect(result.Films).To(Equal([]string{newHopeURL, empireURL}))
			Expect(result.MovieDetails).To(HaveLen(2))
			Expect(result.MovieDetails[0].ID).To(Equal(11))
			Expect(result.MovieDetails[1].ID).To(Equal(5))

			Expect(source.CharacterCalls()).To(Equal([]string{"1"}))
			Expect(movies.Calls()).To(Equal([][]string{{newHopeURL, empireURL}}))
			Expect(store.SaveCalls()).To(HaveLen(1))
			Expect(store.SaveCalls()[0]).To(BeComparableTo(*result))
			Expect(fakeCache.Sets()).To(Equal([]string{"character:1"}))

			Eventually(publisher.Events).Should(HaveLen(1))
			Expect(publisher.Events()[0].Type).To(Equal(domain.EventCharacterFetched))
			Expect(publisher.Events()[0].ID).To(Equal("1"))
		})

		It("should not wait for a slow event publish", func() {
			// ARRANGE
			source.SeedCharacter(stubs.NewCharacterStub().WithID("1").Get())
			publisher.Hold = make(chan struct{})
			defer close(publisher.Hold)

			// ACT
			done := make(chan error, 1)
			go func() {
				_, err := characterService.GetCharacter(ctx, "1")
				done <- err
			}()

			// ASSERT
			Eventually(done).WithTimeout(time.Second).Should(Receive(BeNil()))
			Expect(store.SaveCalls()).To(HaveLen(1))
			Expect(publisher.Events()).To(BeEmpty())
		})

		It("should persist and cache under the id the upstream returns", func() {
			// ARRANGE
			source.SeedCharacter(stubs.NewCharacterStub().WithID("1").WithFilms(newHopeURL).Get())
			source.Alias("01", "1")

			// ACT
			result, err := characterService.GetCharacter(ctx, "01")

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ID).To(Equal("1"))
			Expect(store.SaveCalls()).To(HaveLen(1))
			Expect(store.SaveCalls()[0].ID).To(Equal("1"))
			Expect(fakeCache.Sets()).To(ConsistOf("character:01", "character:1"))
		})

		It("should reuse the stored character when the requested id is an alias", func() {
			// ARRANGE
			stored := stubs.NewCharacterStub().WithID("1").
				WithMovieDetails(stubs.NewMovieDetailsStub().WithID(11).Get()).
				Get()
			store.Seed(stored)
			source.SeedCharacter(stubs.NewCharacterStub().WithID("1").Get())
			source.Alias("01", "1")

			// ACT
			result, err := characterService.GetCharacter(ctx, "01")

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeComparableTo(&stored))
			Expect(store.FindCalls()).To(Equal([]string{"01", "1"}))
			Expect(store.SaveCalls()).To(BeEmpty())
			Expect(movies.Calls()).To(BeEmpty())
			Expect(fakeCache.Sets()).To(Equal([]string{"character:01"}))
		})

		It("should drop unmapped references without failing", func() {
			// ARRANGE
			upstream := stubs.NewCharacterStub().WithID("4").
				WithFilms(newHopeURL, empireURL, unmappedURL, jediURL).
				Get()
			source.SeedCharacter(upstream)

			// ACT
			result, err := characterService.GetCharacter(ctx, "4")

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(movies.Calls()).To(HaveLen(1))
			Expect(movies.Calls()[0]).To(HaveLen(4))
			Expect(result.MovieDetails).To(HaveLen(3))
			Expect(result.Films).To(HaveLen(4))
		})

		It("should serve the next call from the cache with an equal value", func() {
			// ARRANGE
			source.SeedCharacter(stubs.NewCharacterStub().WithID("1").WithFilms(newHopeURL).Get())

			// ACT
			first, err := characterService.GetCharacter(ctx, "1")
			Expect(err).NotTo(HaveOccurred())
			second, err := characterService.GetCharacter(ctx, "1")
			Expect(err).NotTo(HaveOccurred())

			// ASSERT
			Expect(second).To(BeComparableTo(first))
			Expect(source.CharacterCalls()).To(HaveLen(1))
		})

		It("should still write back when the caller context is cancelled", func() {
			// ARRANGE
			source.SeedCharacter(stubs.NewCharacterStub().WithID("1").Get())
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			// ACT
			_, err := characterService.GetCharacter(cancelled, "1")

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(store.SaveCalls()).To(HaveLen(1))
		})
	})

	Context("upstream answers not found", func() {
		It("should propagate ErrEntityNotFound without writes", func() {
			// ACT
			result, err := characterService.GetCharacter(ctx, "999")

			// ASSERT
			Expect(result).To(BeNil())
			Expect(err).To(MatchError(domain.ErrEntityNotFound))
			Expect(store.SaveCalls()).To(BeEmpty())
			Expect(fakeCache.Sets()).To(BeEmpty())
			Expect(movies.Calls()).To(BeEmpty())
			Expect(publisher.Events()).To(BeEmpty())
		})
	})

	Context("upstream fails", func() {
		It("should return an error that is not ErrEntityNotFound", func() {
			// ARRANGE
			source.FetchErr = domain.ErrUpstream

			// ACT
			_, err := characterService.GetCharacter(ctx, "1")

			// ASSERT
			Expect(err).To(MatchError(domain.ErrUpstream))
			Expect(err).NotTo(MatchError(domain.ErrEntityNotFound))
			Expect(store.SaveCalls()).To(BeEmpty())
		})
	})

	Context("store read fails", func() {
		It("should surface the store error", func() {
			// ARRANGE
			store.FindErr = errors.New("connection refused")

			// ACT
			_, err := characterService.GetCharacter(ctx, "1")

			// ASSERT
			Expect(err).To(MatchError(ContainSubstring("connection refused")))
			Expect(source.CharacterCalls()).To(BeEmpty())
		})
	})

	Context("cache failures", func() {
		It("should fall through to the store when the cache read fails", func() {
			// ARRANGE
			fakeCache.GetErr = errors.New("redis down")
			stored := stubs.NewCharacterStub().WithID("1").Get()
			store.Seed(stored)

			// ACT
			result, err := characterService.GetCharacter(ctx, "1")

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeComparableTo(&stored))
		})

		It("should treat a malformed cache payload as a miss", func() {
			// ARRANGE
			fakeCache.Seed(character.CharacterKey("1"), []byte(`{not json`))
			stored := stubs.NewCharacterStub().WithID("1").Get()
			store.Seed(stored)

			// ACT
			result, err := characterService.GetCharacter(ctx, "1")

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeComparableTo(&stored))
		})
	})

	Context("write-back failures", func() {
		It("should return the enriched character when the store save fails", func() {
			// ARRANGE
			store.SaveErr = errors.New("disk full")
			source.SeedCharacter(stubs.NewCharacterStub().WithID("1").WithFilms(newHopeURL).Get())

			// ACT
			result, err := characterService.GetCharacter(ctx, "1")

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.MovieDetails).To(HaveLen(1))
			Expect(fakeCache.Sets()).To(Equal([]string{"character:1"}))
		})

		It("should return the character when cache write and publish fail", func() {
			// ARRANGE
			fakeCache.SetErr = errors.New("redis down")
			publisher.Err = errors.New("broker down")
			source.SeedCharacter(stubs.NewCharacterStub().WithID("1").Get())

			// ACT
			result, err := characterService.GetCharacter(ctx, "1")

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ID).To(Equal("1"))
			Expect(store.SaveCalls()).To(HaveLen(1))
		})
	})
})

var _ = Describe("Character cache keys", func() {
	It("should follow the character and page layout", func() {
		Expect(character.CharacterKey("42")).To(Equal("character:42"))
		Expect(character.PageKey(3)).To(Equal("characters:page:3"))
	})
})

var _ = Describe("Character JSON", func() {
	It("should omit movieDetails when not enriched", func() {
		payload, err := json.Marshal(entities.Character{ID: "1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(payload)).NotTo(ContainSubstring("movieDetails"))
	})
})
