package param

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/gorilla/schema"
)

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.SetAliasTag("json")
	return d
}()

// Binding binds query values on reads and the json body on writes.
func Binding(r *http.Request, v interface{}) error {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		return decoder.Decode(v, r.URL.Query())
	default:
		defer r.Body.Close()
		return json.NewDecoder(r.Body).Decode(v)
	}
}

// String reads one route parameter
func String(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
