package utils

import "github.com/google/uuid"

// NewID 记录主键，UUID v4 字符串
func NewID() string { return uuid.NewString() }
