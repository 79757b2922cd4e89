package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestReadDoc(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		BasePath string                               `json:"basePath"`
		Paths    map[string]map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc), raw)

	assert.Equal(t, "Car Catalog API", doc.Info.Title)
	assert.Equal(t, "/api/v1", doc.BasePath)

	for _, name := range []string{"brand", "type", "model", "year", "pricelist"} {
		assert.Contains(t, doc.Paths["/"+name], "post", name)
		assert.Contains(t, doc.Paths["/"+name+"/all"], "get", name)
		assert.Contains(t, doc.Paths["/"+name+"/{id}"], "patch", name)
		assert.Contains(t, doc.Paths["/"+name+"/{id}"], "delete", name)
	}

	assert.NotContains(t, doc.Paths, "/user", "users are created through registration")
	assert.Contains(t, doc.Paths["/user/me"], "get")
	assert.Contains(t, doc.Paths["/auth/reset-password"], "post")
}

func TestListParamsFollowQueryConfig(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	assert.Contains(t, raw, `"name": "brand_id"`)
	assert.Contains(t, raw, `"name": "is_admin"`)
}
