package results

import (
	"net/http"

	"github.com/JaimeStill/veritas/pkg/openapi"
)

type spec struct {
	List        *openapi.Operation
	Latest      *openapi.Operation
	Ratios      *openapi.Operation
	Summary     *openapi.Operation
	Predictions *openapi.Operation
}

// Spec documents the training result endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary: "List training results, newest first",
		Tags:    []string{"Results"},
		Parameters: append(openapi.PageParams(),
			openapi.QueryParam("split_ratio", "integer", "Only results for this split ratio", false),
		),
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.ResponseJSON("Page of results", openapi.PageResult("TrainingResult")),
		},
	},
	Latest: &openapi.Operation{
		Summary: "Latest training result",
		Tags:    []string{"Results"},
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("split_ratio", "integer", "Limit to one split ratio", false),
		},
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Latest result", openapi.SchemaRef("TrainingResult")),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			http.StatusNotFound:   openapi.ResponseRef("NotFound"),
		},
	},
	Ratios: &openapi.Operation{
		Summary: "Latest training result for each split ratio",
		Tags:    []string{"Results"},
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.ResponseJSON("One entry per split ratio", &openapi.Schema{
				Type:  "array",
				Items: openapi.SchemaRef("RatioResult"),
			}),
		},
	},
	Summary: &openapi.Operation{
		Summary: "Dashboard summary",
		Tags:    []string{"Results"},
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.ResponseJSON("Totals, best metrics, and success criteria", openapi.SchemaRef("Summary")),
		},
	},
	Predictions: &openapi.Operation{
		Summary:     "Predicted images",
		Description: "Images carrying a prediction for the latest result's split ratio, 50 per page.",
		Tags:        []string{"Results"},
		Parameters:  []*openapi.Parameter{openapi.QueryParam("page", "integer", "Page number (1-indexed)", false)},
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.ResponseJSON("Page of images", openapi.PageResult("Image")),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	best := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"value":       {Type: "number"},
			"split_ratio": {Type: "integer"},
		},
	}

	return map[string]*openapi.Schema{
		"TrainingResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":        {Type: "string", Format: "uuid"},
				"accuracy":  {Type: "number"},
				"precision": {Type: "number"},
				"recall":    {Type: "number"},
				"f1_score":  {Type: "number"},
				"auc_roc":   {Type: "number"},
				"confusion_matrix": {
					Type:        "array",
					Description: "[[TN, FP], [FN, TP]] with fake as the positive class",
					Items:       &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "integer"}},
				},
				"split_ratio": {Type: "integer"},
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
			},
		},
		"RatioResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"split_ratio": {Type: "integer"},
				"result":      openapi.SchemaRef("TrainingResult"),
			},
		},
		"Summary": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"total_models":  {Type: "integer"},
				"total_images":  {Type: "integer"},
				"best_accuracy": best,
				"best_f1":       best,
				"best_auc_roc":  best,
				"latest":        openapi.SchemaRef("TrainingResult"),
				"criteria": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"f1_target":      {Type: "number", Example: TargetF1},
						"auc_roc_target": {Type: "number", Example: TargetAUCROC},
						"f1_met":         {Type: "boolean"},
						"auc_roc_met":    {Type: "boolean"},
					},
				},
			},
		},
	}
}
