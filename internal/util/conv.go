package util

import (
	"fmt"
	"strconv"
)

// ParseID 解析正整数 id，空字符串或非正数返回 ErrInvalidInput
func ParseID(name, s string) (uint, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidInput, name)
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid %s", ErrInvalidInput, name)
	}
	return uint(id), nil
}

// ParseIntDefault 解析整数，空字符串或解析失败时返回默认值
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
