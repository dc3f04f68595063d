package chat

import (
	"fmt"
	"strings"
)

// noContextPreamble 无上下文时附加在原始回复前的软化前缀
const noContextPreamble = "I don't have exact details on that, but here's what I can share: "

// FormatReply 对原始回复做无上下文兜底处理，按顺序应用：
//  1. 上下文为空且回复去除首尾空白后以 "Sorry" 开头 -> 固定的转介绍文案
//  2. 上下文为空 -> 在原始回复前附加软化前缀，回复本身不做任何改动
//  3. 其余情况原样返回
func FormatReply(personaName, reply, contextBlock string) string {
	if contextBlock == "" && strings.HasPrefix(strings.TrimSpace(reply), "Sorry") {
		return RedirectReply(personaName)
	}
	if contextBlock == "" {
		return noContextPreamble + reply
	}
	return reply
}

// RedirectReply 无法从背景资料回答时的固定转介绍文案
func RedirectReply(personaName string) string {
	return fmt.Sprintf("That's not something I can answer from %s's background. It's best to ask %s directly!", personaName, personaName)
}

// QuotaExceededReply 补全服务配额耗尽时返回给用户的固定文案
func QuotaExceededReply(personaName string) string {
	return fmt.Sprintf("%s's assistant has run out of API quota for now. Please check the billing settings, or try again later.", personaName)
}

// UpstreamFailureReply 补全服务失败时返回给用户的固定文案
func UpstreamFailureReply(personaName string) string {
	return fmt.Sprintf("Something went wrong while preparing %s's answer. Please try again in a moment.", personaName)
}
