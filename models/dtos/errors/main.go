package errors

import (
	"genotyper/api/models/dtos"
	"net/http"
	"time"
)

/*
	Utility functions to facillitate returning error responses to HTTP clients
*/

// -- Simplest: 1 error with message
func CreateSimpleBadRequest(message string) dtos.GeneralErrorResponseDto {
	return createSimple(400, "Bad Request", message)
}
func CreateSimpleNotFound(message string) dtos.GeneralErrorResponseDto {
	return createSimple(404, "Not Found", message)
}
func CreateSimpleInternalServerError(message string) dtos.GeneralErrorResponseDto {
	return createSimple(500, "Internal Server Error", message)
}

func createSimple(code int, status string, message string) dtos.GeneralErrorResponseDto {
	return dtos.GeneralErrorResponseDto{
		Code:      code,
		Message:   status,
		Timestamp: time.Now(),
		Errors: []dtos.GeneralError{
			{
				Message: message,
			},
		},
	}
}

// --

// CreateSimpleFromStatus builds a response for any HTTP status code
func CreateSimpleFromStatus(code int, message string) dtos.GeneralErrorResponseDto {
	return createSimple(code, http.StatusText(code), message)
}
