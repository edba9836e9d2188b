package datasets

import "math/rand/v2"

// TrainCount returns floor(ratio/100 * n).
func TrainCount(n, ratio int) int {
	return n * ratio / 100
}

// Partition shuffles files uniformly and splits them into train and test
// sets, with TrainCount(len(files), ratio) files in train. The input slice
// is not modified.
func Partition(files []string, ratio int) (train, test []string) {
	shuffled := make([]string, len(files))
	copy(shuffled, files)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := TrainCount(len(shuffled), ratio)
	return shuffled[:cut], shuffled[cut:]
}
