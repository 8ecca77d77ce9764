package serverutils

// Response is the common envelope for all JSON endpoints.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) Response[ErrorBody] {
	return Response[ErrorBody]{
		Success: false,
		Message: message,
		Data: ErrorBody{
			Code:    code,
			Message: message,
		},
	}
}
