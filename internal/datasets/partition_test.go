package datasets_test

import (
	"fmt"
	"slices"
	"testing"

	"github.com/JaimeStill/veritas/internal/datasets"
)

func TestTrainCount(t *testing.T) {
	tests := []struct {
		n, ratio, want int
	}{
		{0, 80, 0},
		{1, 90, 0},
		{10, 80, 8},
		{10, 70, 7},
		{10, 90, 9},
		{7, 80, 5},
		{3, 70, 2},
		{65, 90, 58},
		{1000, 70, 700},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d/ratio=%d", tt.n, tt.ratio), func(t *testing.T) {
			if got := datasets.TrainCount(tt.n, tt.ratio); got != tt.want {
				t.Errorf("TrainCount(%d, %d) = %d, want %d", tt.n, tt.ratio, got, tt.want)
			}
		})
	}
}

func TestPartitionCompleteAndDisjoint(t *testing.T) {
	for _, ratio := range []int{70, 80, 90} {
		for _, n := range []int{0, 1, 2, 9, 10, 33, 100} {
			t.Run(fmt.Sprintf("ratio=%d/n=%d", ratio, n), func(t *testing.T) {
				files := make([]string, n)
				for i := range files {
					files[i] = fmt.Sprintf("f%03d.jpg", i)
				}
				original := slices.Clone(files)

				train, test := datasets.Partition(files, ratio)

				if len(train) != n*ratio/100 {
					t.Errorf("train size = %d, want %d", len(train), n*ratio/100)
				}
				if len(test) != n-len(train) {
					t.Errorf("test size = %d, want %d", len(test), n-len(train))
				}

				seen := make(map[string]bool, n)
				for _, f := range train {
					seen[f] = true
				}
				for _, f := range test {
					if seen[f] {
						t.Errorf("%s in both train and test", f)
					}
					seen[f] = true
				}
				for _, f := range original {
					if !seen[f] {
						t.Errorf("%s missing from partition", f)
					}
				}
				if len(seen) != n {
					t.Errorf("partition has %d distinct files, want %d", len(seen), n)
				}

				if !slices.Equal(files, original) {
					t.Error("Partition modified its input")
				}
			})
		}
	}
}

func TestPartitionShuffles(t *testing.T) {
	files := make([]string, 50)
	for i := range files {
		files[i] = fmt.Sprintf("f%03d.jpg", i)
	}

	firsts := make(map[string]bool)
	for range 50 {
		train, _ := datasets.Partition(files, 80)
		firsts[train[0]] = true
	}

	if len(firsts) < 2 {
		t.Error("Partition produced the same order on every run")
	}
}
