package render

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
)

type wrapResponse struct {
	status int
	header http.Header
	buf    *bytes.Buffer
}

func (w *wrapResponse) Header() http.Header {
	return w.header
}

func (w *wrapResponse) WriteHeader(statusCode int) {
	w.status = statusCode
}

func (w *wrapResponse) Write(data []byte) (int, error) {
	return w.buf.Write(data)
}

func (w *wrapResponse) isJsonContent() bool {
	typ := w.header.Get("Content-Type")
	return strings.HasPrefix(typ, "application/json")
}

type dataResponse struct {
	Data json.RawMessage `json:"data,omitempty"`
}

// WrapResponse wraps successful json bodies in a data envelope so every
// endpoint answers the same shape.
func WrapResponse(wrap bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if !wrap {
				next.ServeHTTP(w, r)
				return
			}

			ww := &wrapResponse{
				status: http.StatusOK,
				header: w.Header(),
				buf:    &bytes.Buffer{},
			}
			next.ServeHTTP(ww, r)

			body := ww.buf.Bytes()
			if ww.status < http.StatusBadRequest && ww.isJsonContent() {
				body, _ = json.Marshal(dataResponse{Data: body})
			}

			w.WriteHeader(ww.status)
			_, _ = w.Write(body)
		}

		return http.HandlerFunc(fn)
	}
}
