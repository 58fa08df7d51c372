package util

// ArrayUnique removes duplicate elements from a slice, keeping first occurrence order
// ArrayUnique 移除切片中的重复元素，保留首次出现的顺序
func ArrayUnique(arr []string) []string {
	result := make([]string, 0, len(arr))
	m := make(map[string]bool, len(arr))
	for _, v := range arr {
		if !m[v] {
			m[v] = true
			result = append(result, v)
		}
	}
	return result
}
