// Package dto holds the JSON envelope every endpoint answers with.
package dto

import "time"

// Response is the envelope: Data on success, Error otherwise, Meta on lists.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// ValidationDetail names one rejected field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func Success(data any) Response {
	return Response{Success: true, Data: data}
}

// Paged wraps one page of a list with its position in the whole
func Paged(items any, total int64, page, pageSize int) Response {
	meta := &Meta{Total: total, Page: page, PageSize: pageSize}
	if pageSize > 0 {
		meta.TotalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Response{Success: true, Data: items, Meta: meta}
}

// Failure builds an error envelope. Domain codes are translated to API codes.
func Failure(code, message, requestID string) Response {
	return Response{Error: &ErrorInfo{
		Code:      NormalizeErrorCode(code),
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
	}}
}

// ValidationFailure is a Failure with ErrCodeValidation listing the rejected fields
func ValidationFailure(message, requestID string, details []ValidationDetail) Response {
	resp := Failure(ErrCodeValidation, message, requestID)
	resp.Error.Details = details
	return resp
}
