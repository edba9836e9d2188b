package datasets

import (
	"net/http"

	"github.com/JaimeStill/veritas/pkg/openapi"
)

type spec struct {
	Upload *openapi.Operation
}

// Spec documents the dataset endpoints.
var Spec = spec{
	Upload: &openapi.Operation{
		Summary: "Upload a labeled dataset",
		Description: "Replaces the dataset stored for the split ratio with the archive's " +
			"real and fake images, partitioned into train and test, then dispatches training.",
		Tags: []string{"Datasets"},
		RequestBody: openapi.RequestBodyMultipart(map[string]*openapi.Schema{
			"archive": {Type: "string", Format: "binary", Description: "Zip archive with real and fake class folders"},
			"split":   {Type: "integer", Enum: []any{90, 80, 70}, Description: "Train percentage"},
		}, "archive", "split"),
		Responses: map[int]*openapi.Response{
			http.StatusAccepted:            openapi.ResponseJSON("Ingested; training dispatched", openapi.SchemaRef("IngestReport")),
			http.StatusBadRequest:          openapi.ResponseRef("BadRequest"),
			http.StatusUnprocessableEntity: openapi.ResponseRef("UnprocessableEntity"),
			http.StatusInternalServerError: openapi.ResponseRef("InternalError"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	class := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"candidates": {Type: "integer"},
			"train":      {Type: "integer"},
			"test":       {Type: "integer"},
			"skipped":    {Type: "integer"},
		},
	}

	return map[string]*openapi.Schema{
		"IngestReport": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"split_ratio": {Type: "integer"},
				"replaced":    {Type: "integer", Description: "Rows of the prior generation removed"},
				"classes": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"real": class,
						"fake": class,
					},
				},
				"rows":    {Type: "integer"},
				"task_id": {Type: "string"},
				"state":   {Type: "string"},
			},
		},
	}
}
