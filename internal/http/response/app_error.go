package response

// AppError 接口错误：业务码、文案 key 与原始错误
type AppError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误，key 为空时表示自定义文案
func WrapError(code int, key, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Key:     key,
		Message: message,
		Err:     err,
	}
}
