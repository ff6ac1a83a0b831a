package todo

// Summary 是一次聚合对外返回的响应信封。
type Summary struct {
	CompletedCount map[string]int `json:"CompletedCount"`
}

// CountByCompleted 将记录按 completed 字面值分组，并统计每组中 id 非空的
// 记录数。当所有记录都携带 id 时，计数即等于分组大小。单次遍历，
// 空输入返回空映射。
func CountByCompleted(records []Record) map[string]int {
	counts := make(map[string]int, 3)
	for _, record := range records {
		key := record.CompletedKey()
		if _, ok := counts[key]; !ok {
			// 分组在出现时即建立，id 全为空的分组也会以 0 计数出现。
			counts[key] = 0
		}
		if record.ID != nil {
			counts[key]++
		}
	}
	return counts
}

// Summarize 对记录做一次完整统计并装配响应信封。
func Summarize(records []Record) Summary {
	return Summary{CompletedCount: CountByCompleted(records)}
}
