package utils

// BatchStrings разбивает срез строк на батчи.
func BatchStrings(items []string, batchSize int) [][]string {
	if len(items) == 0 {
		return [][]string{}
	}
	if batchSize <= 0 {
		batchSize = len(items) // Если размер батча некорректен, обрабатываем все как один батч
	}

	batches := make([][]string, 0, (len(items)+batchSize-1)/batchSize)
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		batches = append(batches, items[i:end])
	}
	return batches
}
