package productivity

import (
	"net/http"

	"github.com/MikeSquared-Agency/Productivity/internal/scoring"
)

const (
	CodeSuccess = http.StatusOK
	CodeFailure = http.StatusNotFound

	StatusOK         = "OK"
	StatusBadRequest = "BAD_REQUEST"
)

// Response is the envelope returned by a calculation.
type Response struct {
	Code       int             `json:"code"`
	HTTPStatus string          `json:"http_status"`
	Result     *scoring.Result `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
}

func SuccessResponse(r scoring.Result) Response {
	return Response{Code: CodeSuccess, HTTPStatus: StatusOK, Result: &r}
}

func FailureResponse(err error) Response {
	resp := Response{Code: CodeFailure, HTTPStatus: StatusBadRequest}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func (r Response) OK() bool {
	return r.Code == CodeSuccess
}
