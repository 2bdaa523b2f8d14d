package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestSwaggerDocIsValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	var parsed struct {
		Paths map[string]any `json:"paths"`
	}
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		t.Fatalf("doc is not JSON: %v", err)
	}
	for _, p := range []string{"/api/v1/profiles/slider", "/api/v1/temperature/target", "/api/v1/settings/{key}"} {
		if _, ok := parsed.Paths[p]; !ok {
			t.Fatalf("path %s missing from doc", p)
		}
	}
}
