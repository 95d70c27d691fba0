// Package httpclient is the HTTP client used by the hosted transcription
// adapters. It resolves paths against a base URL, applies auth, encodes
// JSON and multipart bodies, and classifies failures into typed *Error
// values (auth, rate limit, validation, server, timeout, connection).
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL:        "https://api.groq.com",
//	    Auth:           httpclient.BearerAuth(key),
//	    CircuitBreaker: httpclient.DefaultCircuitBreakerConfig("groq"),
//	})
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/openai/v1/audio/transcriptions",
//	    Body:   &httpclient.MultipartBody{...},
//	})
package httpclient
