package scanning

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

func testPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.Black)
	}
	var buf bytes.Buffer
	Expect(png.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("Ollama", func() {
	var (
		server      *ghttp.Server
		ollama      *Ollama
		pngData     []byte
		contentType string
		text        string
		err         error
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		pngData = testPNG()
		contentType = "image/png"
		ollama, err = NewOllama(server.URL()+"/", "qwen2.5vl")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	JustBeforeEach(func() {
		text, err = ollama.Recognize(context.Background(), pngData, contentType)
	})

	When("the model answers", func() {
		var received ollamaChatRequest

		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/api/chat"),
				ghttp.VerifyContentType("application/json"),
				func(w http.ResponseWriter, r *http.Request) {
					body, err := io.ReadAll(r.Body)
					Expect(err).NotTo(HaveOccurred())
					Expect(json.Unmarshal(body, &received)).To(Succeed())
				},
				ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{
					"message": map[string]any{
						"role":    "assistant",
						"content": "```\nBILLA AG\nSUMME EUR 12,50\n```",
					},
					"done": true,
				}),
			))
		})

		It("should return the cleaned transcript", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("BILLA AG\nSUMME EUR 12,50"))
		})

		It("should send the image with the user message", func() {
			Expect(received.Model).To(Equal("qwen2.5vl"))
			Expect(received.Stream).To(BeFalse())
			Expect(received.Messages).To(HaveLen(2))
			user := received.Messages[1]
			Expect(user.Role).To(Equal("user"))
			Expect(user.Images).To(ConsistOf(base64.StdEncoding.EncodeToString(pngData)))
		})
	})

	When("the API fails", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not loaded"))
		})

		It("should return the status and body", func() {
			Expect(err).To(MatchError(ContainSubstring("status 500")))
			Expect(err).To(MatchError(ContainSubstring("model not loaded")))
		})
	})

	When("the model returns nothing", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{
				"message": map[string]any{"role": "assistant", "content": "  "},
				"done":    true,
			}))
		})

		It("should return ErrEmptyTranscript", func() {
			Expect(err).To(MatchError(ErrEmptyTranscript))
		})
	})

	When("the document cannot be decoded", func() {
		BeforeEach(func() {
			pngData = []byte("definitely not an image")
			contentType = "image/jpeg"
		})

		It("should fail before calling the API", func() {
			Expect(err).To(HaveOccurred())
			Expect(server.ReceivedRequests()).To(BeEmpty())
		})
	})
})

var _ = Describe("newLimiter", func() {
	It("should not limit when requests per minute is zero", func() {
		Expect(float64(newLimiter(0).Limit())).To(BeNumerically(">", 1e9))
	})

	It("should allow one request per interval", func() {
		Expect(float64(newLimiter(30).Limit())).To(BeNumerically("~", 0.5, 1e-9))
	})
})
