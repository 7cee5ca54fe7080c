package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/askiada/go-planflow/pkg/llm"
)

var _ = Describe("OllamaClient", func() {
	var (
		server  *httptest.Server
		handler http.HandlerFunc
		client  *llm.OllamaClient
	)

	BeforeEach(func() {
		handler = nil
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
		DeferCleanup(server.Close)
		client = llm.NewOllamaClient(llm.OllamaConfig{BaseURL: server.URL + "/", Model: "test-model", Timeout: time.Second})
	})

	It("sends the whole conversation without streaming", func() {
		var got map[string]any
		handler = func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(r.URL.Path).To(Equal("/api/chat"))
			Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))
			Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())
			_, _ = w.Write([]byte(`{"model":"test-model","message":{"role":"assistant","content":"<TOOLS>\"clean_text\"</TOOLS>"},"done":true}`))
		}

		reply, err := client.Complete(context.Background(), []llm.Message{
			llm.SystemMessage("be concise"),
			llm.UserMessage("plan"),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(reply).To(Equal(`<TOOLS>"clean_text"</TOOLS>`))

		Expect(got).To(HaveKeyWithValue("model", "test-model"))
		Expect(got).To(HaveKeyWithValue("stream", false))
		Expect(got).NotTo(HaveKey("options"))
		Expect(got["messages"]).To(HaveLen(2))
		Expect(got["messages"].([]any)[0]).To(HaveKeyWithValue("role", "system"))
	})

	It("forwards the temperature", func() {
		temperature := 0.0
		client = llm.NewOllamaClient(llm.OllamaConfig{BaseURL: server.URL, Temperature: &temperature})
		Expect(client.Model()).To(Equal(llm.DefaultModel))

		var got map[string]any
		handler = func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())
			_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"ok"}}`))
		}

		_, err := client.Complete(context.Background(), []llm.Message{llm.UserMessage("hi")})
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(HaveKeyWithValue("options", HaveKeyWithValue("temperature", 0.0)))
	})

	It("classifies a missing model", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"model \"test-model\" not found, try pulling it first"}`))
		}

		_, err := client.Complete(context.Background(), nil)
		Expect(llm.IsKind(err, llm.KindModelNotFound)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("not found"))
	})

	It("classifies other statuses", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}

		_, err := client.Complete(context.Background(), nil)
		var clientErr *llm.ClientError
		Expect(err).To(BeAssignableToTypeOf(clientErr))
		clientErr = err.(*llm.ClientError)
		Expect(clientErr.Kind).To(Equal(llm.KindStatus))
		Expect(clientErr.StatusCode).To(Equal(http.StatusInternalServerError))
	})

	It("rejects an undecodable body", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}

		_, err := client.Complete(context.Background(), nil)
		Expect(llm.IsKind(err, llm.KindInvalidResponse)).To(BeTrue())
	})

	It("reports a timeout as its own kind", func() {
		release := make(chan struct{})
		DeferCleanup(func() { close(release) })
		handler = func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := client.Complete(ctx, nil)
		Expect(llm.IsTimeout(err)).To(BeTrue())
	})

	It("reports an unreachable server as a connection error", func() {
		server.Close()

		_, err := client.Complete(context.Background(), nil)
		Expect(llm.IsKind(err, llm.KindConnection)).To(BeTrue())
	})
})

var _ = Describe("CompleterFunc", func() {
	It("adapts a function", func() {
		var completer llm.Completer = llm.CompleterFunc(func(_ context.Context, messages []llm.Message) (string, error) {
			return messages[len(messages)-1].Content, nil
		})

		reply, err := completer.Complete(context.Background(), []llm.Message{llm.AssistantMessage("echo")})
		Expect(err).NotTo(HaveOccurred())
		Expect(reply).To(Equal("echo"))
	})
})

var _ = Describe("ErrorKind", func() {
	DescribeTable("String",
		func(kind llm.ErrorKind, want string) {
			Expect(kind.String()).To(Equal(want))
		},
		Entry("timeout", llm.KindTimeout, "timeout"),
		Entry("connection", llm.KindConnection, "connection"),
		Entry("model not found", llm.KindModelNotFound, "model not found"),
		Entry("unknown", llm.KindUnknown, "unknown"),
	)
})
