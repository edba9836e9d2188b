package images

import (
	"net/http"

	"github.com/JaimeStill/veritas/pkg/openapi"
)

type spec struct {
	List   *openapi.Operation
	Find   *openapi.Operation
	Search *openapi.Operation
}

// Spec documents the image endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary: "List images",
		Tags:    []string{"Images"},
		Parameters: append(openapi.PageParams(),
			openapi.QueryParam("split_ratio", "integer", "Dataset generation (70, 80, or 90)", false),
			openapi.QueryParam("type", "string", "Ground-truth label: real or fake", false),
			openapi.QueryParam("split", "string", "Partition: train or test", false),
			openapi.QueryParam("prediction", "string", "Predicted label: real or fake", false),
			openapi.QueryParam("predicted", "boolean", "Only rows with (true) or without (false) a prediction", false),
		),
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.ResponseJSON("Page of images", openapi.PageResult("Image")),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get an image",
		Tags:       []string{"Images"},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Image ID")},
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Image", openapi.SchemaRef("Image")),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			http.StatusNotFound:   openapi.ResponseRef("NotFound"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search images",
		Description: "Pagination, sort, and filter criteria in a JSON body.",
		Tags:        []string{"Images"},
		RequestBody: openapi.RequestBodyJSON("ImageSearch"),
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Page of images", openapi.PageResult("Image")),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	labels := []any{string(ClassReal), string(ClassFake)}
	return map[string]*openapi.Schema{
		"Image": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"filename":    {Type: "string", Example: "fake_img_001.jpg"},
				"path":        {Type: "string", Example: "images/80/train/fake/img_001.jpg"},
				"type":        {Type: "string", Enum: labels},
				"split":       {Type: "string", Enum: []any{string(SplitTrain), string(SplitTest)}},
				"split_ratio": {Type: "integer", Enum: []any{90, 80, 70}},
				"prediction":  {Type: "string", Enum: labels, Description: "Null until a training run predicts it"},
				"confidence":  {Type: "number", Description: "Null until a training run predicts it"},
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
			},
		},
		"ImageSearch": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"search":      {Type: "string", Description: "Filename substring"},
				"sort":        {Type: "string", Example: "-split_ratio,filename"},
				"split_ratio": {Type: "integer"},
				"type":        {Type: "string", Enum: labels},
				"split":       {Type: "string"},
				"prediction":  {Type: "string", Enum: labels},
				"predicted":   {Type: "boolean"},
			},
		},
	}
}
