package images

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/veritas/pkg/query"
	"github.com/JaimeStill/veritas/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "images", "i").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("path", "Path").
	Project("type", "Type").
	Project("split", "Split").
	Project("split_ratio", "SplitRatio").
	Project("prediction", "Prediction").
	Project("confidence", "Confidence").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field: "Filename",
}

// Filters contains optional filtering criteria for image queries.
// Nil fields are ignored. Predicted selects rows with (true) or
// without (false) a prediction.
type Filters struct {
	SplitRatio *int    `json:"split_ratio,omitempty"`
	Type       *string `json:"type,omitempty"`
	Split      *string `json:"split,omitempty"`
	Prediction *string `json:"prediction,omitempty"`
	Predicted  *bool   `json:"predicted,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("SplitRatio", f.SplitRatio).
		WhereEquals("Type", f.Type).
		WhereEquals("Split", f.Split).
		WhereEquals("Prediction", f.Prediction).
		WherePresent("Prediction", f.Predicted)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unparseable numeric and boolean values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if sr := values.Get("split_ratio"); sr != "" {
		if v, err := strconv.Atoi(sr); err == nil {
			f.SplitRatio = &v
		}
	}

	if t := values.Get("type"); t != "" {
		f.Type = &t
	}

	if s := values.Get("split"); s != "" {
		f.Split = &s
	}

	if p := values.Get("prediction"); p != "" {
		f.Prediction = &p
	}

	if p := values.Get("predicted"); p != "" {
		if v, err := strconv.ParseBool(p); err == nil {
			f.Predicted = &v
		}
	}

	return f
}

func scanImage(s repository.Scanner) (Image, error) {
	var i Image
	err := s.Scan(
		&i.ID,
		&i.Filename,
		&i.Path,
		&i.Type,
		&i.Split,
		&i.SplitRatio,
		&i.Prediction,
		&i.Confidence,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
