// Package message defines the core data types flowing through the vaani pipeline.
package message

import "time"

// Request is an incoming assistant query from any transport.
type Request struct {
	// ID is a unique identifier for this request (UUID). Assigned by the
	// dispatcher when the transport leaves it empty.
	ID string `json:"-"`

	// Text is the user's query. Must be non-empty.
	Text string `json:"text" example:"What is taapmaan in Mumbai?"`

	// Language is the reply language, one of punjabi, marathi, gujarati,
	// hindi, english.
	Language string `json:"language" example:"hindi"`

	// ReceivedAt is when the transport accepted the request.
	ReceivedAt time.Time `json:"-"`
}

// Route says which path produced a Response.
type Route string

const (
	RouteWeather Route = "weather"
	RouteChat    Route = "chat"
)

// Response is the assistant's answer.
type Response struct {
	// Response is the answer text.
	Response string `json:"response" example:"Mumbai में तापमान 29.5°सेल्सियस है।"`

	// Route is the path that produced the answer. Not part of the wire format.
	Route Route `json:"-"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Detail string `json:"detail" example:"Unsupported language"`
}
