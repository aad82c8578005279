package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Timetable Grid API",
        "description": "Course timetables laid out on a fixed slot grid, with overlapping sessions split into subcolumns",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetables", "description": "Cycle navigation and grid views"},
        {"name": "Exports", "description": "PDF and CSV timetables"}
    ],
    "paths": {
        "/cycles": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List cycles",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Session source unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cycles/{cycle}/timetable": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Timetable of a cycle",
                "parameters": [
                    {"name": "cycle", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TimetableEnvelope"}},
                    "503": {"description": "Session source unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cycles/{cycle}/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a cycle timetable",
                "produces": ["application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/csv"],
                "parameters": [
                    {"name": "cycle", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["pdf", "xlsx", "csv"]}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}},
                    "400": {"description": "Invalid format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Write exports for several cycles to the export directory",
                "parameters": [
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/BatchExportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "BatchExportRequest": {
            "type": "object",
            "properties": {
                "cycles": {"type": "array", "items": {"type": "string"}},
                "formats": {"type": "array", "items": {"type": "string", "enum": ["pdf", "xlsx", "csv"]}},
                "combined": {"type": "boolean"}
            }
        },
        "CellView": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "subject": {"type": "string"},
                "color": {"type": "string"}
            }
        },
        "SlotRow": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "label": {"type": "string"},
                "cells": {"type": "array", "items": {"type": "array", "items": {"$ref": "#/definitions/CellView"}}}
            }
        },
        "DayColumn": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "width": {"type": "integer"}
            }
        },
        "TimetableView": {
            "type": "object",
            "properties": {
                "cycle": {"type": "string"},
                "title": {"type": "string"},
                "days": {"type": "array", "items": {"$ref": "#/definitions/DayColumn"}},
                "slots": {"type": "array", "items": {"$ref": "#/definitions/SlotRow"}},
                "diagnostics": {"type": "array", "items": {"type": "object"}},
                "generatedAt": {"type": "string", "format": "date-time"}
            }
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
        },
        "TimetableEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/TimetableView"},
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
