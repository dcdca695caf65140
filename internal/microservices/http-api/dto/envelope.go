package dto

import "encoding/json"

// Envelope wraps every API response.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OK wraps data; a nil data is sent as an explicit null.
func OK(data any) Envelope {
	if data == nil {
		data = json.RawMessage("null")
	}
	return Envelope{Success: true, Data: data}
}

func Fail(code, message string) Envelope {
	return Envelope{Success: false, Error: &ErrorBody{Code: code, Message: message}}
}
