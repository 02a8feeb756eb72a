package api

import (
	"encoding/json"
	"net/http"
)

// Codes carried in ErrorResponse
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeInternal     = "internal"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeRateLimited  = "rate_limited"
)

// Register endpoint messages, shown to the user verbatim
const (
	MsgSuccess        = "success"
	MsgDuplicateEmail = "이메일이 중복되었습니다."
	MsgCheckInput     = "이메일 또는 비밀번호를 확인하세요."
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response except register's:
//
//	{"error": {"code": "unauthorized", "message": "..."}}
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// MessageResponse is register's flat {"message": ...} body
type MessageResponse struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: APIError{Code: code, Message: message}})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		http.Error(w, `{"error":{"code":"internal","message":"encode response"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}
