package ghttp

import "encoding/json"

type Error struct {
	StatusCode   int
	ResponseBody []byte
	cause        error
}

func NewError(statusCode int, body []byte, cause error) *Error {
	return &Error{
		StatusCode:   statusCode,
		ResponseBody: body,
		cause:        cause,
	}
}

func (e *Error) Cause() error {
	return e.cause
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Message returns the msg field of a JSON error body, or the raw body if
// it is not one.
func (e *Error) Message() string {
	var body struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(e.ResponseBody, &body); err == nil && body.Msg != "" {
		return body.Msg
	}
	return string(e.ResponseBody)
}

func (e *Error) Error() string {
	if e.ResponseBody != nil {
		return e.cause.Error() + ": " + e.Message()
	}

	return e.cause.Error()
}
