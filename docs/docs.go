// Package docs registers the OpenAPI document served under /swagger.
//
// The catalog resources share one generic handler set that swag annotations
// cannot describe per resource, so the document is built from the
// catalog.Resource definitions, the same ones that drive routing and queries.
package docs

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/swaggo/swag"

	"github.com/user/carcatalog-go/catalog"
	"github.com/user/carcatalog-go/query"
	"github.com/user/carcatalog-go/users"
)

type object = map[string]any

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Car Catalog API",
	Description:      "Vehicle brands, types, models, years and price lists behind JWT authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate(),
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

func docTemplate() string {
	paths := object{}
	for path, item := range authPaths() {
		paths[path] = item
	}
	for _, res := range []catalog.Resource{
		catalog.BrandResource,
		catalog.TypeResource,
		catalog.ModelResource,
		catalog.YearResource,
		catalog.PricelistResource,
	} {
		for path, item := range resourcePaths(res, true) {
			paths[path] = item
		}
	}
	for path, item := range resourcePaths(users.UserResource, false) {
		paths[path] = item
	}
	paths["/user/me"] = object{"get": operation("User", "Current user", true, nil, 200, 400, 401, 404)}

	doc := object{
		"swagger": "2.0",
		"info": object{
			"title":       "{{.Title}}",
			"description": "{{escape .Description}}",
			"version":     "{{.Version}}",
		},
		"host":     "{{.Host}}",
		"basePath": "{{.BasePath}}",
		"schemes":  []string{},
		"paths":    paths,
		"definitions": object{
			"apperror.Response": object{
				"type": "object",
				"properties": object{
					"data":    object{},
					"message": object{"type": "string", "example": "success"},
					"error":   object{},
					"status":  object{"type": "integer", "example": 200},
				},
			},
		},
		"securityDefinitions": object{
			"BearerAuth": object{
				"type":        "apiKey",
				"name":        "Authorization",
				"in":          "header",
				"description": "Type 'Bearer YOUR_JWT_TOKEN' to authorize",
			},
		},
	}

	b, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		panic(err)
	}
	return string(b)
}

func authPaths() object {
	body := func(name string) []object {
		return []object{{"name": name, "in": "body", "required": true, "schema": object{"type": "object"}}}
	}
	token := []object{{"name": "token", "in": "query", "required": true, "type": "string"}}

	return object{
		"/auth/register":        object{"post": operation("Auth", "User Registration", false, body("registerBody"), 201, 400, 500)},
		"/auth/login":           object{"post": operation("Auth", "User Login", false, body("loginBody"), 200, 400, 500)},
		"/auth/verify-email":    object{"get": operation("Auth", "Verify Email", false, token, 200, 400, 401, 404)},
		"/auth/forget-password": object{"post": operation("Auth", "Forgot Password", false, body("forgetBody"), 200, 400, 404, 500)},
		"/auth/reset-password":  object{"post": operation("Auth", "Reset Password", false, append(token, body("resetBody")...), 200, 400, 401, 500)},
	}
}

// resourcePaths describes the routes mounted by catalog.Handlers.Routes,
// or by users.UserHandlers.Routes when withCreate is false.
func resourcePaths(res catalog.Resource, withCreate bool) object {
	tag := res.Name
	id := []object{{"name": "id", "in": "path", "required": true, "type": "integer"}}
	body := []object{{"name": res.Name + "Body", "in": "body", "required": true, "schema": object{"type": "object"}}}

	root := "/" + res.Name
	paths := object{
		root + "/all": object{"get": operation(tag, "List "+res.Name, true, listParams(res.Query), 200, 400, 401, 404)},
		root + "/{id}": object{
			"get":    operation(tag, "Get "+res.Name, true, id, 200, 400, 401, 404),
			"patch":  operation(tag, "Update "+res.Name, true, append(id, body...), 200, 400, 401, 404),
			"delete": operation(tag, "Delete "+res.Name, true, id, 200, 400, 401, 404),
		},
	}
	if withCreate {
		paths[root] = object{"post": operation(tag, "Create "+res.Name, true, body, 201, 400, 401, 404)}
	}
	return paths
}

func listParams(cfg query.Config) []object {
	params := []object{
		{"name": "page", "in": "query", "type": "integer", "default": query.DefaultPage},
		{"name": "limit", "in": "query", "type": "integer", "default": query.DefaultLimit},
		{"name": "offset", "in": "query", "type": "integer"},
		{"name": "sort", "in": "query", "type": "string", "enum": cfg.SortFields, "default": cfg.DefaultSort},
		{"name": "order", "in": "query", "type": "string", "enum": []string{"asc", "desc"}},
	}
	for _, f := range cfg.Filters {
		typ := "string"
		switch f.Kind {
		case query.Int:
			typ = "integer"
		case query.Bool:
			typ = "boolean"
		}
		params = append(params, object{"name": f.Name, "in": "query", "type": typ})
	}
	return params
}

func operation(tag, summary string, secured bool, params []object, statuses ...int) object {
	responses := object{}
	for _, status := range statuses {
		responses[strconv.Itoa(status)] = object{
			"description": http.StatusText(status),
			"schema":      object{"$ref": "#/definitions/apperror.Response"},
		}
	}
	op := object{
		"tags":      []string{tag},
		"summary":   summary,
		"consumes":  []string{"application/json"},
		"produces":  []string{"application/json"},
		"responses": responses,
	}
	if len(params) > 0 {
		op["parameters"] = params
	}
	if secured {
		op["security"] = []object{{"BearerAuth": []string{}}}
	}
	return op
}
