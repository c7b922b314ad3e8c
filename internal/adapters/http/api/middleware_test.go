package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a wrapped handler", t, func() {
		status := http.StatusOK
		h := MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("ok"))
		}, "test")

		Convey("When it answers", func() {
			for _, status = range []int{http.StatusOK, http.StatusNotFound, http.StatusBadGateway} {
				w := httptest.NewRecorder()
				h(w, httptest.NewRequest(http.MethodGet, "/", nil))

				So(w.Code, ShouldEqual, status)
				So(w.Body.String(), ShouldEqual, "ok")
			}
		})
	})

	Convey("Error types follow the status code", t, func() {
		So(getErrorType(400), ShouldEqual, "client_error")
		So(getErrorType(404), ShouldEqual, "not_found")
		So(getErrorType(429), ShouldEqual, "rate_limit")
		So(getErrorType(500), ShouldEqual, "server_error")
		So(getErrorType(502), ShouldEqual, "upstream_error")
		So(getErrorSeverity(502), ShouldEqual, "high")
		So(getErrorSeverity(404), ShouldEqual, "medium")
	})
}
