package group

// flatten concatenates a group's batches in order: element (g, s) of the
// input lands at flat index g*batchSize + s.
func flatten[T any](grouped [][]T) []T {
	total := 0
	for _, batch := range grouped {
		total += len(batch)
	}

	flat := make([]T, 0, total)
	for _, batch := range grouped {
		flat = append(flat, batch...)
	}
	return flat
}

// refold partitions a flat result list back into consecutive chunks of
// batchSize, inverting flatten's index mapping: flat index i becomes
// element (i/batchSize, i%batchSize).
func refold[T any](flat []T, batchSize int) [][]T {
	if batchSize <= 0 {
		return nil
	}

	folded := make([][]T, 0, len(flat)/batchSize)
	for lower := 0; lower < len(flat); lower += batchSize {
		folded = append(folded, flat[lower:lower+batchSize])
	}
	return folded
}
