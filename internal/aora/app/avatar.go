package app

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// Initials 從顯示名稱取出最多兩個字首並轉大寫
func Initials(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i >= 2 {
			break
		}
		r := []rune(word)[0]
		b.WriteRune(unicode.ToUpper(r))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

// AvatarURL 由顯示名稱的字首組出頭像參照，純本地運算不發遠端呼叫
func AvatarURL(endpoint, projectID, name string) string {
	params := make(url.Values)
	params.Set("name", Initials(name))
	params.Set("project", projectID)
	return fmt.Sprintf("%s/avatars/initials?%s", endpoint, params.Encode())
}
