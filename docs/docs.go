// Package docs registers the OpenAPI document served at /swagger/doc.json.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Researcher login",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.LoginResponse"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/templates": {
            "get": {
                "security": [{"ResearcherToken": []}],
                "tags": ["templates"],
                "summary": "List built-in and own templates",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Template"}}}
                }
            },
            "post": {
                "security": [{"ResearcherToken": []}],
                "tags": ["templates"],
                "summary": "Create a template",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.Template"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid template"}
                }
            }
        },
        "/templates/{templateId}": {
            "get": {
                "security": [{"ResearcherToken": []}],
                "tags": ["templates"],
                "summary": "Get a template",
                "parameters": [
                    {"type": "string", "name": "templateId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Template"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/interviews": {
            "post": {
                "tags": ["interviews"],
                "summary": "Start an interview",
                "parameters": [
                    {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/model.StartInterviewRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.StartInterviewResponse"}}
                }
            }
        },
        "/interviews/{sessionId}/messages": {
            "post": {
                "security": [{"RespondentToken": []}],
                "tags": ["interviews"],
                "summary": "Answer the current question",
                "parameters": [
                    {"type": "string", "name": "sessionId", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.MessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.TurnResult"}},
                    "404": {"description": "session expired"}
                }
            }
        },
        "/interviews/{sessionId}/end": {
            "post": {
                "security": [{"RespondentToken": []}],
                "tags": ["interviews"],
                "summary": "End an interview early",
                "parameters": [
                    {"type": "string", "name": "sessionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "session expired"}
                }
            }
        },
        "/interviews/{sessionId}/summary": {
            "get": {
                "security": [{"ResearcherToken": []}],
                "tags": ["interviews"],
                "summary": "Get the summary of a finished interview",
                "parameters": [
                    {"type": "string", "name": "sessionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "interview still in progress"}
                }
            }
        },
        "/interviews/{sessionId}/transcript": {
            "get": {
                "security": [{"ResearcherToken": []}],
                "tags": ["interviews"],
                "summary": "Get the transcript and analyzed responses",
                "parameters": [
                    {"type": "string", "name": "sessionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "model.LoginRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "model.LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "researcherId": {"type": "string"}}
        },
        "model.Template": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "topic": {"type": "string"},
                "starterQuestions": {"type": "array", "items": {"type": "string"}},
                "maxTurns": {"type": "integer"},
                "probeBudget": {"type": "integer"},
                "builtIn": {"type": "boolean"}
            }
        },
        "model.StartInterviewRequest": {
            "type": "object",
            "properties": {
                "templateId": {"type": "string"},
                "topic": {"type": "string"},
                "starterQuestions": {"type": "array", "items": {"type": "string"}},
                "maxTurns": {"type": "integer"},
                "probeBudget": {"type": "integer"}
            }
        },
        "model.StartInterviewResponse": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "token": {"type": "string"},
                "topic": {"type": "string"},
                "question": {"type": "string"},
                "progress": {"$ref": "#/definitions/model.Progress"}
            }
        },
        "model.MessageRequest": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "model.Progress": {
            "type": "object",
            "properties": {"current": {"type": "integer"}, "total": {"type": "integer"}}
        },
        "model.TurnResult": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "question": {"type": "string"},
                "summary": {"type": "object"},
                "isProbe": {"type": "boolean"},
                "progress": {"$ref": "#/definitions/model.Progress"},
                "isComplete": {"type": "boolean"},
                "terminatedEarly": {"type": "boolean"},
                "terminationReason": {"type": "string"},
                "sentiment": {"type": "string"},
                "quality": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ResearcherToken": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "RespondentToken": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "AI Interviewer API",
	Description:      "Adaptive research interviews: one question per turn, probing, redirects and summaries.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
