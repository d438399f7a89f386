package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

const (
	MsgMethodNotAllowed = "Method Not Allowed!"
	MsgInternalError    = "Internal Server Error!"
	MsgForbidden        = "Permission Denied!"
	MsgUnauthorized     = "Token is invalid"
)

// RespondWithJSON writes the success envelope {"data": payload}.
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	writeJSON(w, statusCode, map[string]interface{}{"data": payload})
}

// RespondWithError writes the single-error envelope {"error": message}.
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// RespondWithErrors writes the field-error envelope {"errors": [...]}.
func RespondWithErrors(w http.ResponseWriter, statusCode int, messages []string) {
	writeJSON(w, statusCode, map[string][]string{"errors": messages})
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("failed to encode response, error: %v", err)
	}
}

// ParseBody flattens the request body into field-name -> raw value. Form
// fields win over a JSON body; anything unparseable yields an empty map.
func ParseBody(r *http.Request) map[string]json.RawMessage {
	fields := make(map[string]json.RawMessage)

	if err := r.ParseForm(); err == nil && len(r.PostForm) > 0 {
		for key, values := range r.PostForm {
			if len(values) == 0 {
				continue
			}
			quoted, err := json.Marshal(values[0])
			if err != nil {
				continue
			}
			fields[key] = quoted
		}
		return fields
	}

	if r.Body == nil {
		return fields
	}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return map[string]json.RawMessage{}
	}
	return fields
}

// MissingFields reports every required key the lookup cannot find, phrased
// for the client. Used for headers and bodies alike.
func MissingFields(required []string, present func(key string) bool) []string {
	errs := make([]string, 0)
	for _, field := range required {
		if !present(field) {
			errs = append(errs, field+" is required!")
		}
	}
	return errs
}

// BodyHas adapts a parsed body to MissingFields.
func BodyHas(body map[string]json.RawMessage) func(string) bool {
	return func(key string) bool {
		_, ok := body[key]
		return ok
	}
}

// HeaderHas adapts request headers to MissingFields.
func HeaderHas(header http.Header) func(string) bool {
	return func(key string) bool {
		return header.Get(key) != ""
	}
}
