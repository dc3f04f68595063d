package llm

import "strings"

// IsQuotaExceededError 判断上游错误是否为配额耗尽
func IsQuotaExceededError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota")
}
