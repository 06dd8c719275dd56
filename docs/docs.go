// Package docs registers the Swagger 2.0 document served at /docs. It keeps
// the layout swag init emits, so running go generate ./cmd/api replaces it
// with a freshly generated copy from the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Daily Draft"
        },
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "Returns API name, version, status and the round rules.",
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "API root info",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Returns basic health status and timestamp.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/health/store": {
            "get": {
                "description": "Verifies the completion store (file or Postgres) is usable.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Store health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/health/cache": {
            "get": {
                "description": "Returns response cache and season cache statistics.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Cache health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/v1/daily": {
            "get": {
                "description": "Returns the five questions of today's round. The round is derived from the UTC date and cached until the next UTC midnight.",
                "produces": ["application/json"],
                "tags": ["rounds"],
                "summary": "Get the daily round",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RoundResponse"}},
                    "304": {"description": "Not modified"}
                }
            }
        },
        "/api/v1/daily/status": {
            "get": {
                "description": "Returns today's date and seed, whether the caller has completed it, and seconds until the next round.",
                "produces": ["application/json"],
                "tags": ["completion"],
                "summary": "Get daily status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.StatusResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/daily/complete": {
            "post": {
                "description": "Re-scores the submitted picks against today's round and saves the completion. Questions without a leader are skipped and do not count toward the maximum.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["completion"],
                "summary": "Complete the daily round",
                "parameters": [
                    {"description": "Picks keyed by question index", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CompleteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.CompletionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/daily/share": {
            "get": {
                "description": "Returns the plain-text summary of today's completed round.",
                "produces": ["text/plain"],
                "tags": ["completion"],
                "summary": "Get share text",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/completion/{date}": {
            "get": {
                "description": "Returns the caller's saved completion for the date.",
                "produces": ["application/json"],
                "tags": ["completion"],
                "summary": "Get a completion",
                "parameters": [
                    {"type": "string", "description": "Date (YYYY-MM-DD)", "name": "date", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.CompletionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/practice": {
            "post": {
                "description": "Returns a randomly generated round. The seed identifies the round when submitting answers.",
                "produces": ["application/json"],
                "tags": ["rounds"],
                "summary": "Start a practice round",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.RoundResponse"}}
                }
            }
        },
        "/api/v1/rounds/{seed}/questions/{index}/candidates": {
            "get": {
                "description": "Returns eligible players for the question, or a single sentinel entry with a null player_id.",
                "produces": ["application/json"],
                "tags": ["rounds"],
                "summary": "Get candidates for a question",
                "parameters": [
                    {"type": "string", "description": "Round seed", "name": "seed", "in": "path", "required": true},
                    {"type": "integer", "description": "Question index (0-4)", "name": "index", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/game.Candidate"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/rounds/{seed}/answers": {
            "post": {
                "description": "Scores the chosen player against the statistical leader. An empty player_id is recorded as no selection; questions with a data issue are skipped.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["rounds"],
                "summary": "Answer a question",
                "parameters": [
                    {"type": "string", "description": "Round seed", "name": "seed", "in": "path", "required": true},
                    {"description": "Pick", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.AnswerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AnswerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/eligible/{position}/{year}": {
            "get": {
                "description": "Returns players at the position who recorded usage in the season, sorted by name.",
                "produces": ["application/json"],
                "tags": ["players"],
                "summary": "Get eligible players",
                "parameters": [
                    {"enum": ["QB", "WR", "RB", "TE"], "type": "string", "description": "Position", "name": "position", "in": "path", "required": true},
                    {"type": "integer", "description": "Season", "name": "year", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/game.Candidate"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "game.Candidate": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "player_id": {"type": "string"}
            }
        },
        "game.Result": {
            "type": "object",
            "properties": {
                "points_awarded": {"type": "integer", "maximum": 10000, "minimum": 0},
                "tier": {"type": "string"},
                "guessed_value": {"type": "number"},
                "user_selection": {"type": "string"},
                "player_id": {"type": "string"},
                "skipped": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "handler.QuestionView": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "slot": {"type": "string"},
                "position": {"type": "string"},
                "year": {"type": "integer"},
                "statistic": {"type": "string"},
                "prompt": {"type": "string"},
                "data_issue": {"type": "boolean"}
            }
        },
        "handler.RoundResponse": {
            "type": "object",
            "properties": {
                "mode": {"type": "string"},
                "date": {"type": "string"},
                "seed": {"type": "string"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/handler.QuestionView"}}
            }
        },
        "handler.AnswerRequest": {
            "type": "object",
            "properties": {
                "index": {"type": "integer", "maximum": 4, "minimum": 0},
                "player_id": {"type": "string"},
                "player_name": {"type": "string"}
            }
        },
        "handler.CorrectAnswer": {
            "type": "object",
            "properties": {
                "player_id": {"type": "string"},
                "name": {"type": "string"},
                "value": {"type": "number"},
                "statistic": {"type": "string"}
            }
        },
        "handler.AnswerResponse": {
            "type": "object",
            "properties": {
                "result": {"$ref": "#/definitions/game.Result"},
                "correct": {"$ref": "#/definitions/handler.CorrectAnswer"}
            }
        },
        "handler.Pick": {
            "type": "object",
            "properties": {
                "player_id": {"type": "string"},
                "player_name": {"type": "string"}
            }
        },
        "handler.CompleteRequest": {
            "type": "object",
            "properties": {
                "picks": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.Pick"}}
            }
        },
        "handler.CompletionResponse": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "score": {"type": "integer"},
                "max_score": {"type": "integer"},
                "results": {"type": "object", "additionalProperties": {"$ref": "#/definitions/game.Result"}},
                "completed_at": {"type": "string"},
                "share_text": {"type": "string"}
            }
        },
        "handler.StatusResponse": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "seed": {"type": "string"},
                "completed": {"type": "boolean"},
                "record": {"$ref": "#/definitions/handler.CompletionResponse"},
                "next_reset_seconds": {"type": "integer"}
            }
        },
        "respond.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "detail": {"type": "string"},
                        "fields": {"type": "array", "items": {"type": "string"}}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Daily Draft NFL Trivia API",
	Description:      "Daily and practice rounds of NFL statistical-leader trivia with proximity scoring and per-user daily completions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
