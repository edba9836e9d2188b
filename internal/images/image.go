// Package images implements the image record domain for Veritas.
// It provides types, data access, and query endpoints for the labeled
// images persisted during dataset ingestion and the predictions later
// backfilled by training runs.
package images

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Class is the ground-truth label of an image.
type Class string

// Image classes.
const (
	ClassReal Class = "real"
	ClassFake Class = "fake"
)

// Classes lists the image classes in discovery order.
var Classes = []Class{ClassReal, ClassFake}

// Valid reports whether c is a known class.
func (c Class) Valid() bool {
	return c == ClassReal || c == ClassFake
}

// Split is the partition an image is assigned to.
type Split string

// Dataset partitions.
const (
	SplitTrain Split = "train"
	SplitTest  Split = "test"
)

// Valid reports whether s is a known split.
func (s Split) Valid() bool {
	return s == SplitTrain || s == SplitTest
}

// SplitRatios lists the supported train percentages. A split ratio is also
// the identity of a dataset generation.
var SplitRatios = []int{90, 80, 70}

// ValidSplitRatio reports whether ratio is a supported train percentage.
func ValidSplitRatio(ratio int) bool {
	return slices.Contains(SplitRatios, ratio)
}

// Image is a stored dataset image with its label, partition, and the
// prediction produced by the most recent training run (if any).
type Image struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	Type       Class     `json:"type"`
	Split      Split     `json:"split"`
	SplitRatio int       `json:"split_ratio"`
	Prediction *Class    `json:"prediction"`
	Confidence *float64  `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateCommand carries the metadata for one image row written during ingestion.
// Prediction and confidence always start out NULL.
type CreateCommand struct {
	Filename   string
	Path       string
	Type       Class
	Split      Split
	SplitRatio int
}
