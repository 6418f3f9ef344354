package swagger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

func TestRegister(t *testing.T) {
	Convey("Given the docs routes on a mux", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		do := func(method, path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(method, path, http.NoBody))
			return w
		}

		Convey("When fetching the OpenAPI document", func() {
			w := do(http.MethodGet, SpecPath)

			Convey("Then the embedded YAML is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/yaml; charset=utf-8")
				So(w.Body.Bytes(), ShouldResemble, OpenAPI)
			})
		})

		Convey("When fetching the docs page", func() {
			w := do(http.MethodGet, DocsPath)

			Convey("Then ReDoc is pointed at the document", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "text/html; charset=utf-8")
				So(w.Body.String(), ShouldContainSubstring, RedocCDN)
				So(w.Body.String(), ShouldContainSubstring, "Redoc.init('/openapi.yaml'")
			})
		})

		Convey("When probing with HEAD", func() {
			w := do(http.MethodHead, SpecPath)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.Len(), ShouldEqual, 0)
		})

		Convey("When posting", func() {
			w := do(http.MethodPost, DocsPath)
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Get("Allow"), ShouldEqual, "GET, HEAD")
		})
	})

	Convey("Given a nil mux", t, func() {
		So(func() { Register(context.Background(), nil) }, ShouldPanic)
	})
}

func TestOpenAPIDocument(t *testing.T) {
	Convey("Given the embedded OpenAPI document", t, func() {
		var doc struct {
			OpenAPI string                    `yaml:"openapi"`
			Paths   map[string]map[string]any `yaml:"paths"`
		}
		err := yaml.Unmarshal(OpenAPI, &doc)

		Convey("Then it parses and lists every route", func() {
			So(err, ShouldBeNil)
			So(doc.OpenAPI, ShouldStartWith, "3.")
			for _, p := range []string{"/analyze", "/sample", "/stats", "/healthz", "/dashboard"} {
				So(doc.Paths, ShouldContainKey, p)
			}
			So(doc.Paths["/analyze"], ShouldContainKey, "post")
		})
	})
}
