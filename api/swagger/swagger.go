package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Showrunner API",
        "description": "Shooting-schedule planning service for micro-budget episodic productions",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Breakdowns", "description": "Per-episode scene breakdowns"},
        {"name": "Locations", "description": "Location groups and venue suggestions"},
        {"name": "Schedule", "description": "Schedule generation and lifecycle"}
    ],
    "paths": {
        "/projects/{projectId}/breakdowns": {
            "get": {
                "tags": ["Breakdowns"],
                "summary": "List episode breakdowns",
                "parameters": [
                    {"name": "projectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Breakdowns"],
                "summary": "Store or replace the breakdown for an episode",
                "parameters": [
                    {"name": "projectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertBreakdownRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/{projectId}/breakdowns/{episode}": {
            "get": {
                "tags": ["Breakdowns"],
                "summary": "Get one episode breakdown",
                "parameters": [
                    {"name": "projectId", "in": "path", "required": true, "type": "string"},
                    {"name": "episode", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Breakdowns"],
                "summary": "Delete one episode breakdown",
                "parameters": [
                    {"name": "projectId", "in": "path", "required": true, "type": "string"},
                    {"name": "episode", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/projects/{projectId}/locations": {
            "get": {
                "tags": ["Locations"],
                "summary": "List location groups",
                "parameters": [
                    {"name": "projectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Locations"],
                "summary": "Store or replace a location group",
                "parameters": [
                    {"name": "projectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertLocationGroupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/locations/{id}/venue": {
            "put": {
                "tags": ["Locations"],
                "summary": "Pin a venue suggestion for a location group",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectVenueRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/{projectId}/schedule/generate": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Generate a shooting schedule",
                "parameters": [
                    {"name": "projectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Missing breakdown", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/{projectId}/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Get the latest schedule version",
                "parameters": [
                    {"name": "projectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No schedule yet", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/{projectId}/schedule/days/{dayNumber}/status": {
            "patch": {
                "tags": ["Schedule"],
                "summary": "Update the status of one shoot day",
                "parameters": [
                    {"name": "projectId", "in": "path", "required": true, "type": "string"},
                    {"name": "dayNumber", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateDayStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/{projectId}/rehearsals/suggestions": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Suggest rehearsal sessions for the latest schedule",
                "parameters": [
                    {"name": "projectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SuggestRehearsalsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/{projectId}/schedule/call-sheets": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Export call sheets for the latest schedule",
                "parameters": [
                    {"name": "projectId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered file"}
                }
            }
        }
    },
    "definitions": {
        "Scene": {
            "type": "object",
            "properties": {
                "episode": {"type": "integer"},
                "sceneNumber": {"type": "integer"},
                "title": {"type": "string"},
                "location": {"type": "string"},
                "timeOfDay": {"type": "string", "enum": ["DAY", "NIGHT", "SUNRISE", "SUNSET", "MAGIC_HOUR"]},
                "durationMinutes": {"type": "integer"},
                "cast": {"type": "array", "items": {"type": "string"}}
            }
        },
        "UpsertBreakdownRequest": {
            "type": "object",
            "properties": {
                "episode": {"type": "integer"},
                "scenes": {"type": "array", "items": {"$ref": "#/definitions/Scene"}}
            },
            "required": ["episode", "scenes"]
        },
        "VenueSuggestion": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "address": {"type": "string"},
                "dayRate": {"type": "number"},
                "permitCost": {"type": "number"},
                "deposit": {"type": "number"},
                "hasParking": {"type": "boolean"},
                "hasPower": {"type": "boolean"},
                "hasRestrooms": {"type": "boolean"},
                "permitRequired": {"type": "boolean"},
                "insuranceRequired": {"type": "boolean"}
            }
        },
        "UpsertLocationGroupRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "scenes": {"type": "array", "items": {"type": "object"}},
                "venues": {"type": "array", "items": {"$ref": "#/definitions/VenueSuggestion"}},
                "selectedVenueId": {"type": "string"}
            },
            "required": ["name"]
        },
        "SelectVenueRequest": {
            "type": "object",
            "properties": {
                "venueId": {"type": "string"}
            },
            "required": ["venueId"]
        },
        "GenerateScheduleRequest": {
            "type": "object",
            "properties": {
                "episodes": {"type": "array", "items": {"type": "integer"}},
                "mode": {"type": "string", "enum": ["single-episode", "cross-episode"]},
                "requestedBy": {"type": "string"},
                "disableGenerative": {"type": "boolean"}
            },
            "required": ["episodes"]
        },
        "UpdateDayStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["scheduled", "confirmed", "shot", "postponed"]},
                "updatedBy": {"type": "string"}
            },
            "required": ["status"]
        },
        "SuggestRehearsalsRequest": {
            "type": "object",
            "properties": {
                "episodes": {"type": "array", "items": {"type": "integer"}}
            },
            "required": ["episodes"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
