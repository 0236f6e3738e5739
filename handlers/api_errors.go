package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// APIErrorDetail is one entry in the error envelope returned by the
// inventory API.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse wraps one or more error details.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes the error envelope with the given HTTP status, a
// machine-readable code and a human-readable detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{{
			Code:   code,
			Status: strconv.Itoa(httpStatus),
			Detail: detail,
		}},
	}

	_ = json.NewEncoder(w).Encode(resp)
}
