package web

// RequestIDHeader carries the request id between services.
const RequestIDHeader = "X-Request-Id"
