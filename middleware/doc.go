// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /fridge", middleware.WithLogging(handler))

Logs request start (method, path, remote, request_id) and completion
(status, duration_ms). Each request gets an X-Request-ID, reused from the
incoming header when present, otherwise a fresh UUID. Handlers read it with
RequestID(r.Context()).

# Timeouts and CORS

	handler := middleware.CORS(middleware.WithTimeout(cfg.RequestTimeout, mux))

WithTimeout puts a deadline on the request context, which every kitchen API
call inherits.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadGateway, "message")
	middleware.ValidationError(w, map[string]string{"name": "Name is required"})

	var req models.CreateLobbyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
