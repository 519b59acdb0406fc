package docs

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readDoc(t *testing.T) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))
	return doc
}

func TestSwaggerInfo_HostMatchesDefaultPort(t *testing.T) {
	doc := readDoc(t)
	assert.Equal(t, "localhost:8000", doc["host"])
	assert.Equal(t, "/", doc["basePath"])
}

func TestSwaggerDoc_PostRoutes(t *testing.T) {
	paths := readDoc(t)["paths"].(map[string]any)

	post := paths["/post/{id}"].(map[string]any)
	assert.Contains(t, post, "get")
	assert.Contains(t, post, "delete")
	assert.Contains(t, paths["/post"], "put")
}

func TestSwaggerDoc_RefsResolve(t *testing.T) {
	doc := readDoc(t)
	definitions := doc["definitions"].(map[string]any)

	refs := regexp.MustCompile(`#/definitions/([A-Za-z.]+)`).FindAllStringSubmatch(SwaggerInfo.ReadDoc(), -1)
	require.NotEmpty(t, refs)
	for _, ref := range refs {
		assert.Contains(t, definitions, ref[1], "unresolved $ref %s", ref[0])
	}
}
