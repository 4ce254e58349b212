package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNetwork 没拿到响应（连接失败、超时）
var ErrNetwork = errors.New("api: network error")

type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("api %s: network: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// StatusError 非 2xx，Body 为后端原样返回的内容
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("api %s: status %d: %s", e.Op, e.Status, e.Body)
}

// DefaultCredentialsMessage 后端 401 没带内容时使用
const DefaultCredentialsMessage = "Invalid credentials"

// CredentialsError 登录 401
type CredentialsError struct {
	Message string
}

func (e *CredentialsError) Error() string { return e.Message }

func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}
