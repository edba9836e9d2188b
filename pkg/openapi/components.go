package openapi

import (
	"maps"
	"net/http"
)

var errorBody = map[string]*MediaType{
	"application/json": {Schema: SchemaRef("Error")},
}

// NewComponents creates Components holding the error schema and the
// error responses every handler can produce.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":          {Description: http.StatusText(http.StatusBadRequest), Content: errorBody},
			"NotFound":            {Description: http.StatusText(http.StatusNotFound), Content: errorBody},
			"UnprocessableEntity": {Description: http.StatusText(http.StatusUnprocessableEntity), Content: errorBody},
			"InternalError":       {Description: http.StatusText(http.StatusInternalServerError), Content: errorBody},
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// PageResult returns the schema of a pagination.PageResult whose data
// items reference the named component schema.
func PageResult(item string) *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"data":        {Type: "array", Items: SchemaRef(item)},
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	}
}

// PageParams returns the query parameters accepted by paginated listings.
func PageParams() []*Parameter {
	return []*Parameter{
		QueryParam("page", "integer", "Page number (1-indexed)", false),
		QueryParam("page_size", "integer", "Results per page", false),
		QueryParam("search", "string", "Search query", false),
		QueryParam("sort", "string", "Comma-separated fields; prefix with - for descending", false),
	}
}
