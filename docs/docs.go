// Package docs holds the OpenAPI description served at /swagger in dev mode.
package docs

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
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Issue an operator token",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/auth.LoginRequest"}}],
                "responses": {"200": {"description": "token"}, "401": {"description": "unauthorized"}}
            }
        },
        "/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Create an operator account (admin)",
                "security": [{"Bearer": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/auth.RegisterRequest"}}],
                "responses": {"201": {"description": "created"}, "409": {"description": "already exists"}}
            }
        },
        "/system-clock": {
            "get": {
                "tags": ["system-clock"],
                "summary": "Virtual clock status",
                "security": [{"Bearer": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/sysclock.ClockResponse"}}}
            },
            "put": {
                "tags": ["system-clock"],
                "summary": "Enable, move or disable the virtual clock (admin)",
                "security": [{"Bearer": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/sysclock.UpdateClockRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/sysclock.ClockResponse"}},
                    "400": {"description": "invalid argument"},
                    "500": {"description": "store unavailable"}
                }
            }
        },
        "/system-clock/reset": {
            "post": {
                "tags": ["system-clock"],
                "summary": "Disable the virtual clock (admin)",
                "security": [{"Bearer": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/sysclock.ClockResponse"}}}
            }
        },
        "/attendance/check-in": {
            "post": {
                "tags": ["attendance"],
                "summary": "Clock in at the virtual-clock instant",
                "security": [{"Bearer": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/attendance.ClockRequest"}}],
                "responses": {"201": {"description": "created"}, "409": {"description": "already checked in"}}
            }
        },
        "/attendance/check-out": {
            "post": {
                "tags": ["attendance"],
                "summary": "Clock out at the virtual-clock instant",
                "security": [{"Bearer": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/attendance.ClockRequest"}}],
                "responses": {"201": {"description": "created"}, "409": {"description": "no open check-in"}}
            }
        },
        "/attendance": {
            "get": {
                "tags": ["attendance"],
                "summary": "List attendance records",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "query", "name": "employee_id", "type": "integer"},
                    {"in": "query", "name": "on", "type": "string", "description": "YYYY-MM-DD or today"},
                    {"in": "query", "name": "from", "type": "string"},
                    {"in": "query", "name": "to", "type": "string"},
                    {"in": "query", "name": "status", "type": "string"},
                    {"in": "query", "name": "anomaly_only", "type": "boolean"},
                    {"in": "query", "name": "sort", "type": "string"},
                    {"in": "query", "name": "limit", "type": "integer"},
                    {"in": "query", "name": "offset", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "head": {
                "tags": ["attendance"],
                "summary": "Whether an employee has any record on a day",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "query", "name": "employee_id", "type": "integer", "required": true},
                    {"in": "query", "name": "on", "type": "string"}
                ],
                "responses": {"200": {"description": "exists"}, "404": {"description": "none"}}
            }
        },
        "/attendance/stats": {
            "get": {
                "tags": ["attendance"],
                "summary": "Per-employee status counts over a date range",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"in": "query", "name": "from", "type": "string", "required": true},
                    {"in": "query", "name": "to", "type": "string", "required": true},
                    {"in": "query", "name": "status", "type": "string"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/absence-detection/run": {
            "post": {
                "tags": ["absence"],
                "summary": "Run absence detection for one past day (admin)",
                "security": [{"Bearer": []}],
                "parameters": [{"in": "body", "name": "body", "schema": {"$ref": "#/definitions/absence.RunRequest"}}],
                "responses": {
                    "200": {"description": "run summary"},
                    "400": {"description": "invalid date"},
                    "409": {"description": "a run is already in progress"}
                }
            }
        },
        "/calendar/days-off.ics": {
            "get": {
                "tags": ["calendar"],
                "summary": "Public holidays and company-wide days off as iCalendar",
                "produces": ["text/calendar"],
                "parameters": [
                    {"in": "query", "name": "from", "type": "string"},
                    {"in": "query", "name": "to", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "auth.LoginRequest": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "password": {"type": "string"}}
        },
        "auth.RegisterRequest": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "password": {"type": "string"}, "role": {"type": "string"}}
        },
        "sysclock.UpdateClockRequest": {
            "type": "object",
            "properties": {"enabled": {"type": "boolean"}, "customDatetime": {"type": "string"}}
        },
        "sysclock.ClockResponse": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"},
                "customDatetime": {"type": "string"},
                "serverRefDatetime": {"type": "string"},
                "currentServerTime": {"type": "string"},
                "currentSystemTime": {"type": "string"},
                "offsetMinutes": {"type": "integer"},
                "updatedAt": {"type": "string"},
                "updatedBy": {"type": "string"}
            }
        },
        "attendance.ClockRequest": {
            "type": "object",
            "properties": {"employee_id": {"type": "integer"}, "source": {"type": "string"}, "note": {"type": "string"}}
        },
        "absence.RunRequest": {
            "type": "object",
            "properties": {"date": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "2.0",
	Host:             "",
	BasePath:         "/api/v2",
	Schemes:          []string{"https"},
	Title:            "SiteIntern attendance API",
	Description:      "Virtual clock, attendance clocking and absence detection.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
