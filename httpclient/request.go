package httpclient

// Request describes an outbound HTTP request.
type Request struct {
	Method string
	// Path is joined to the client's BaseURL unless it is an absolute URL.
	Path    string
	Headers map[string]string
	Query   map[string]string
	// Body accepts *MultipartBody, io.Reader, []byte, string, or any value
	// to be JSON-encoded.
	Body any
	// Auth overrides the client-level auth.
	Auth *AuthConfig
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
