package handler

// responseWrapper is the uniform success envelope for all API responses.
type responseWrapper struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Code    int    `json:"code"`
}

func wrap(message string, data any, code int) responseWrapper {
	return responseWrapper{Message: message, Data: data, Code: code}
}
