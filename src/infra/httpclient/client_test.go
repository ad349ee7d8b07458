package httpclient_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"starwarsproxy/src/domain"
	"starwarsproxy/src/infra/httpclient"
)

var _ = Describe("Client.GetJSON", func() {
	var (
		ctx    context.Context
		server *httptest.Server
		client *httpclient.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = httpclient.NewClient(time.Second, slog.New(slog.DiscardHandler))
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	When("the upstream answers 200", func() {
		It("should decode the body and forward headers", func() {
			// ARRANGE
			var authorization string
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				authorization = r.Header.Get("Authorization")
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"name":"Luke"}`))
			}))

			// ACT
			var out struct {
				Name string `json:"name"`
			}
			err := client.GetJSON(ctx, server.URL, map[string]string{"Authorization": "Bearer token"}, &out)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Name).To(Equal("Luke"))
			Expect(authorization).To(Equal("Bearer token"))
		})
	})

	When("the upstream answers a non-2xx status", func() {
		It("should return a StatusError wrapping ErrUpstream", func() {
			// ARRANGE
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))

			// ACT
			var out map[string]any
			err := client.GetJSON(ctx, server.URL, nil, &out)

			// ASSERT
			Expect(err).To(MatchError(domain.ErrUpstream))
			Expect(httpclient.HasStatus(err, http.StatusNotFound)).To(BeTrue())
			Expect(httpclient.HasStatus(err, http.StatusInternalServerError)).To(BeFalse())
		})
	})

	When("the upstream body is not JSON", func() {
		It("should return ErrUpstream", func() {
			// ARRANGE
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			}))

			// ACT
			var out map[string]any
			err := client.GetJSON(ctx, server.URL, nil, &out)

			// ASSERT
			Expect(err).To(MatchError(domain.ErrUpstream))
		})
	})

	When("the upstream is slower than the timeout", func() {
		It("should return ErrUpstream", func() {
			// ARRANGE
			release := make(chan struct{})
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-release:
				case <-r.Context().Done():
				}
			}))
			defer close(release)
			client = httpclient.NewClient(50*time.Millisecond, slog.New(slog.DiscardHandler))

			// ACT
			var out map[string]any
			err := client.GetJSON(ctx, server.URL, nil, &out)

			// ASSERT
			Expect(err).To(MatchError(domain.ErrUpstream))
		})
	})
})
