// Package event routes HTTP-shaped invocation events to the user service and
// maps domain outcomes into a status-code/body envelope.
package event

import "user-management-api/internal/domain"

// RequestContext mirrors the API-Gateway proxy request context. Only RequestID
// is consumed; the rest is accepted so real events unmarshal cleanly.
type RequestContext struct {
	AccountID        string `json:"accountId"`
	ResourceID       string `json:"resourceId"`
	Stage            string `json:"stage"`
	RequestID        string `json:"requestId"`
	RequestTime      string `json:"requestTime"`
	RequestTimeEpoch int64  `json:"requestTimeEpoch"`
	Path             string `json:"path"`
	ResourcePath     string `json:"resourcePath"`
	HTTPMethod       string `json:"httpMethod"`
	APIID            string `json:"apiId"`
	Protocol         string `json:"protocol"`
}

// Event is the inbound invocation shape. Body arrives as a typed JSON object,
// nil when the caller sent none.
type Event struct {
	Resource                        string              `json:"resource"`
	Path                            string              `json:"path"`
	HTTPMethod                      string              `json:"httpMethod"`
	Body                            *domain.User        `json:"body"`
	IsBase64Encoded                 bool                `json:"isBase64Encoded"`
	QueryStringParameters           map[string]string   `json:"queryStringParameters"`
	MultiValueQueryStringParameters map[string][]string `json:"multiValueQueryStringParameters"`
	PathParameters                  map[string]string   `json:"pathParameters"`
	StageVariables                  map[string]string   `json:"stageVariables"`
	Headers                         map[string]string   `json:"headers"`
	MultiValueHeaders               map[string][]string `json:"multiValueHeaders"`
	RequestContext                  RequestContext      `json:"requestContext"`
}

// Response is the outbound envelope.
type Response struct {
	StatusCode int `json:"statusCode"`
	Body       any `json:"body"`
}

// ErrorBody is the body shape of every error response.
type ErrorBody struct {
	Message string `json:"message"`
}
