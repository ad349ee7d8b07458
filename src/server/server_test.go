package server_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"starwarsproxy/src/domain"
	"starwarsproxy/src/domain/entities"
	"starwarsproxy/src/server"
	"starwarsproxy/src/services/character"
	"starwarsproxy/src/services/record"
	"starwarsproxy/src/test_artefacts/fakes"
	"starwarsproxy/src/test_artefacts/stubs"
)

var _ = Describe("Server", func() {
	var (
		fakeCache   *fakes.Cache
		source      *fakes.CharacterSource
		movies      *fakes.MovieSource
		recordStore *fakes.RecordStore
		handler     http.Handler
	)

	do := func(method string, target string, body string, headers ...string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		for i := 0; i+1 < len(headers); i += 2 {
			req.Header.Set(headers[i], headers[i+1])
		}

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		return recorder
	}

	BeforeEach(func() {
		logger := slog.New(slog.DiscardHandler)
		fakeCache = fakes.NewCache()
		source = fakes.NewCharacterSource()
		movies = fakes.NewMovieSource()
		recordStore = fakes.NewRecordStore()
		publisher := fakes.NewEventPublisher()

		characterService := character.NewCharacterService(
			fakeCache, fakes.NewCharacterStore(), source, movies, publisher, time.Minute, logger,
		)
		recordService := record.NewRecordService(recordStore, publisher, logger)

		handler = server.NewServer(logger, ":0", characterService, recordService).Handler()
	})

	Context("GET /api/v1/characters", func() {
		BeforeEach(func() {
			source.SeedPage(1, []entities.Character{
				stubs.NewCharacterStub().WithID("1").WithName("Luke Skywalker").Get(),
				stubs.NewCharacterStub().WithID("2").WithName("C-3PO").Get(),
			})
		})

		It("should list the first page by default", func() {
			// ACT
			response := do(http.MethodGet, "/api/v1/characters", "")

			// ASSERT
			Expect(response.Code).To(Equal(http.StatusOK))
			Expect(response.Body.String()).To(MatchJSON(`[
				{"id": "1", "name": "Luke Skywalker", "detailUrl": "/api/v1/characters/1"},
				{"id": "2", "name": "C-3PO", "detailUrl": "/api/v1/characters/2"}
			]`))
			Expect(source.PageCalls()).To(Equal([]int{1}))
		})

		It("should accept a trailing slash", func() {
			// ACT
			response := do(http.MethodGet, "/api/v1/characters/?page=1", "")

			// ASSERT
			Expect(response.Code).To(Equal(http.StatusOK))
		})

		It("should return an empty list past the last page", func() {
			// ACT
			response := do(http.MethodGet, "/api/v1/characters?page=50", "")

			// ASSERT
			Expect(response.Code).To(Equal(http.StatusOK))
			Expect(response.Body.String()).To(MatchJSON(`[]`))
		})

		DescribeTable("rejecting invalid pages",
			func(page string) {
				response := do(http.MethodGet, "/api/v1/characters?page="+page, "")
				Expect(response.Code).To(Equal(http.StatusBadRequest))
				Expect(source.PageCalls()).To(BeEmpty())
			},
			Entry("zero", "0"),
			Entry("negative", "-1"),
			Entry("not a number", "abc"),
		)

		It("should answer 304 when the ETag matches", func() {
			// ARRANGE
			first := do(http.MethodGet, "/api/v1/characters", "")
			etag := first.Header().Get("ETag")
			Expect(etag).NotTo(BeEmpty())

			// ACT
			second := do(http.MethodGet, "/api/v1/characters", "", "If-None-Match", etag)

			// ASSERT
			Expect(second.Code).To(Equal(http.StatusNotModified))
			Expect(second.Body.Len()).To(BeZero())
		})

		It("should answer 500 with a generic message when the upstream fails", func() {
			// ARRANGE
			source.FetchErr = domain.ErrUpstream

			// ACT
			response := do(http.MethodGet, "/api/v1/characters?page=3", "")

			// ASSERT
			Expect(response.Code).To(Equal(http.StatusInternalServerError))
			Expect(response.Body.String()).To(ContainSubstring(domain.ErrUnavailableServer.Error()))
		})
	})

	Context("GET /api/v1/characters/{id}", func() {
		It("should return the enriched detail", func() {
			// ARRANGE
			source.SeedCharacter(stubs.NewCharacterStub().WithID("1").WithFilms("https://swapi.dev/api/films/1/").Get())
			movies.Seed("https://swapi.dev/api/films/1/", stubs.NewMovieDetailsStub().WithID(11).WithTitle("A New Hope").Get())

			// ACT
			response := do(http.MethodGet, "/api/v1/characters/1", "")

			// ASSERT
			Expect(response.Code).To(Equal(http.StatusOK))

			var detail server.CharacterDetailDTO
			Expect(json.Unmarshal(response.Body.Bytes(), &detail)).To(Succeed())
			Expect(detail.ID).To(Equal("1"))
			Expect(detail.MovieDetails).To(HaveLen(1))
			Expect(detail.MovieDetails[0].Title).To(Equal("A New Hope"))
		})

		It("should answer 404 when the character does not exist", func() {
			// ACT
			response := do(http.MethodGet, "/api/v1/characters/999", "")

			// ASSERT
			Expect(response.Code).To(Equal(http.StatusNotFound))
		})

		It("should answer 500 on other failures", func() {
			// ARRANGE
			source.FetchErr = errors.New("boom")

			// ACT
			response := do(http.MethodGet, "/api/v1/characters/1", "")

			// ASSERT
			Expect(response.Code).To(Equal(http.StatusInternalServerError))
			Expect(response.Body.String()).NotTo(ContainSubstring("boom"))
		})
	})

	Context("DELETE /api/v1/characters/cache", func() {
		It("should clear both prefixes", func() {
			// ACT
			response := do(http.MethodDelete, "/api/v1/characters/cache", "")

			// ASSERT
			Expect(response.Code).To(Equal(http.StatusNoContent))
			Expect(fakeCache.Prefixes()).To(ConsistOf("character:", "characters:page:"))
		})

		It("should answer 500 when the cache fails", func() {
			// ARRANGE
			fakeCache.DeleteErr = errors.New("redis down")

			// ACT
			response := do(http.MethodDelete, "/api/v1/characters/cache", "")

			// ASSERT
			Expect(response.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Context("POST /api/v1/data", func() {
		It("should create the record", func() {
			// ACT
			response := do(http.MethodPost, "/api/v1/data", `{"type": "favorite", "data": {"name": "Leia"}}`)

			// ASSERT
			Expect(response.Code).To(Equal(http.StatusCreated))

			var created server.RecordDTO
			Expect(json.Unmarshal(response.Body.Bytes(), &created)).To(Succeed())
			Expect(created.ID).NotTo(BeEmpty())
			Expect(created.Type).To(Equal("favorite"))
			Expect(created.Data).To(MatchJSON(`{"name": "Leia"}`))
			Expect(created.CreatedAt).NotTo(BeZero())
		})

		DescribeTable("rejecting invalid bodies",
			func(body string) {
				response := do(http.MethodPost, "/api/v1/data", body)
				Expect(response.Code).To(Equal(http.StatusBadRequest))
			},
			Entry("malformed json", `{`),
			Entry("missing type", `{"data": {"a": 1}}`),
			Entry("missing data", `{"type": "favorite"}`),
			Entry("data is not an object", `{"type": "favorite", "data": "x"}`),
		)
	})

	Context("GET /api/v1/data", func() {
		It("should return a stored record", func() {
			// ARRANGE
			stored := stubs.NewRecordStub().WithID("abc").WithType("favorite").Get()
			recordStore.Seed(stored)

			// ACT
			response := do(http.MethodGet, "/api/v1/data/favorite/abc", "")

			// ASSERT
			Expect(response.Code).To(Equal(http.StatusOK))
			Expect(response.Header().Get("ETag")).NotTo(BeEmpty())
		})

		It("should answer 404 Data not found when absent", func() {
			// ACT
			response := do(http.MethodGet, "/api/v1/data/favorite/missing", "")

			// ASSERT
			Expect(response.Code).To(Equal(http.StatusNotFound))
			Expect(response.Body.String()).To(ContainSubstring("Data not found"))
		})

		It("should list records by type", func() {
			// ARRANGE
			recordStore.Seed(stubs.NewRecordStub().WithID("a").WithType("favorite").Get())
			recordStore.Seed(stubs.NewRecordStub().WithID("b").WithType("favorite").Get())

			// ACT
			response := do(http.MethodGet, "/api/v1/data/favorite", "")

			// ASSERT
			Expect(response.Code).To(Equal(http.StatusOK))
			var records []server.RecordDTO
			Expect(json.Unmarshal(response.Body.Bytes(), &records)).To(Succeed())
			Expect(records).To(HaveLen(2))
		})
	})

	Context("GET /api/v1/history", func() {
		It("should return merged history newest first", func() {
			// ARRANGE
			t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			recordStore.Seed(stubs.NewRecordStub().WithID("3").WithType(domain.CategoryMovie).WithCreatedAt(t.Add(2 * time.Second)).Get())
			recordStore.Seed(stubs.NewRecordStub().WithID("1").WithType(domain.CategoryCharacter).WithCreatedAt(t.Add(time.Second)).Get())
			recordStore.Seed(stubs.NewRecordStub().WithID("2").WithType(domain.CategoryCharacter).WithCreatedAt(t).Get())

			// ACT
			response := do(http.MethodGet, "/api/v1/history", "")

			// ASSERT
			Expect(response.Code).To(Equal(http.StatusOK))
			var records []server.RecordDTO
			Expect(json.Unmarshal(response.Body.Bytes(), &records)).To(Succeed())
			Expect(records).To(HaveLen(3))
			Expect([]string{records[0].ID, records[1].ID, records[2].ID}).To(Equal([]string{"3", "1", "2"}))
		})
	})

	Context("GET /health", func() {
		It("should report healthy", func() {
			// ACT
			response := do(http.MethodGet, "/health", "")

			// ASSERT
			Expect(response.Code).To(Equal(http.StatusOK))
			var health server.HealthDTO
			Expect(json.Unmarshal(response.Body.Bytes(), &health)).To(Succeed())
			Expect(health.Status).To(Equal("healthy"))
			Expect(health.Timestamp).NotTo(BeEmpty())
		})
	})
})
