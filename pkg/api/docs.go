package api

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/decode": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["replays"],
                "summary": "Decode a replay",
                "parameters": [
                    {"description": "Replay container", "name": "body", "in": "body", "required": true, "schema": {"type": "string", "format": "binary"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ReplaySummary"}},
                    "400": {"description": "Bad Request"},
                    "413": {"description": "Request Entity Too Large"},
                    "415": {"description": "Unsupported Media Type"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/replays": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["replays"],
                "summary": "List replays",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["replays"],
                "summary": "Import a replay",
                "parameters": [
                    {"description": "Replay container", "name": "body", "in": "body", "required": true, "schema": {"type": "string", "format": "binary"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/archive.Entry"}},
                    "409": {"description": "Conflict"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/replays/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["replays"],
                "summary": "Get a replay summary",
                "parameters": [{"type": "string", "description": "Replay ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/archive.Entry"}},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["replays"],
                "summary": "Delete a replay",
                "parameters": [{"type": "string", "description": "Replay ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/replays/{id}/frames.csv": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["text/csv"],
                "tags": ["replays"],
                "summary": "Replay frames as CSV",
                "parameters": [
                    {"type": "string", "description": "Replay ID", "name": "id", "in": "path", "required": true},
                    {"type": "boolean", "description": "Include the header row", "name": "header", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/replays/{id}/raw": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/octet-stream"],
                "tags": ["replays"],
                "summary": "Download a replay",
                "parameters": [{"type": "string", "description": "Replay ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        }
    },
    "definitions": {
        "api.ReplaySummary": {
            "type": "object",
            "properties": {
                "mode": {"type": "string"},
                "version": {"type": "integer"},
                "beatmap_hash": {"type": "string"},
                "player": {"type": "string"},
                "score_hash": {"type": "string"},
                "count_300": {"type": "integer"},
                "count_100": {"type": "integer"},
                "count_50": {"type": "integer"},
                "count_geki": {"type": "integer"},
                "count_katu": {"type": "integer"},
                "count_miss": {"type": "integer"},
                "total_score": {"type": "integer"},
                "max_combo": {"type": "integer"},
                "perfect": {"type": "boolean"},
                "mods": {"type": "string"},
                "mod_flags": {"type": "integer"},
                "played_at": {"type": "string"},
                "online_id": {"type": "integer"},
                "frames": {"type": "integer"},
                "health_points": {"type": "integer"},
                "duration_ms": {"type": "integer"}
            }
        },
        "archive.Entry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "score_hash": {"type": "string"},
                "beatmap_hash": {"type": "string"},
                "player": {"type": "string"},
                "mode": {"type": "string"},
                "version": {"type": "integer"},
                "total_score": {"type": "integer"},
                "max_combo": {"type": "integer"},
                "mods": {"type": "string"},
                "frames": {"type": "integer"},
                "played_at": {"type": "string"},
                "stored_at": {"type": "string"},
                "size": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "osrkit REST API",
	Description:      "Decode, archive and export legacy .osr replays.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
