package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/recupero/internal/domain/narrative"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew_MissingKey(t *testing.T) {
	Convey("Given no API key", t, func() {
		_, err := New(context.Background(), Config{})
		So(errors.Is(err, ErrMissingAPIKey), ShouldBeTrue)
	})
}

func TestClient_Complete(t *testing.T) {
	Convey("Given a Gemini endpoint", t, func() {
		var path string
		status, body := http.StatusOK, `{
			"candidates": [{
				"content": {
					"role": "model",
					"parts": [{"text": "## Subjects"}, {"text": " most recovered"}]
				}
			}]
		}`
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
		defer server.Close()

		client, err := New(context.Background(), Config{APIKey: "k", BaseURL: server.URL, Model: "gemini-test"})
		So(err, ShouldBeNil)

		Convey("When a candidate answers in several parts", func() {
			content, err := client.Complete(context.Background(), narrative.Request{Prompt: "p", MaxTokens: 100})

			Convey("Then the parts are joined into one text", func() {
				So(err, ShouldBeNil)
				text, err := content.Text()
				So(err, ShouldBeNil)
				So(text, ShouldEqual, "## Subjects most recovered")
				So(path, ShouldContainSubstring, "gemini-test")
			})
		})

		Convey("When there are no candidates", func() {
			body = `{"candidates": []}`
			content, err := client.Complete(context.Background(), narrative.Request{Prompt: "p"})

			Convey("Then the content is empty", func() {
				So(err, ShouldBeNil)
				_, err := content.Text()
				So(errors.Is(err, narrative.ErrEmptyContent), ShouldBeTrue)
			})
		})

		Convey("When the key is refused", func() {
			status = http.StatusForbidden
			body = `{"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}}`
			_, err := client.Complete(context.Background(), narrative.Request{Prompt: "p"})

			Convey("Then the call fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
