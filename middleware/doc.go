// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /habits", middleware.WithLogging(handler))

Logs request start at debug level (method, path, remote) and completion
(status, duration_ms). The latency is also observed in the
http_request_duration_seconds histogram, labelled by route pattern.
The wrapper keeps http.Flusher working so event streams can sit behind it.

# CORS Middleware

The API is meant for the local machine. CORS headers are only sent for
loopback origins (localhost, 127.0.0.1, ::1):

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, DELETE, OPTIONS with the Content-Type header.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies (capped at MaxBodyBytes):

	var req models.AddHabitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
