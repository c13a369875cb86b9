// Package http implements the HTTP handlers of the indicator panel.
// Handlers stay thin: they decode query parameters, call the panel service and
// render the result.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → PanelService → indicators
//	                                              ↓
//	HTTP Response ← Handler ← View ←─────────────┘
//
// # Responses
//
// Successful views are wrapped in {"status":"success","data":...}. Empty
// results are not errors: every view carries a state and message explaining
// why it is empty. Errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/validation",
//	    "title": "Bad Request",
//	    "status": 400,
//	    "detail": "Request validation failed",
//	    "instance": "/api/v1/series"
//	}
//
// Exports are served as attachments from /api/v1/export/{view}.{format}.
package http
