package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Crane Records API",
        "description": "Equipment revision and logbook consistency engine for crane inspection records",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and session info"},
        {"name": "Equipment", "description": "Equipment registry with derived revision dates"},
        {"name": "Revisions", "description": "Periodic revision protocols"},
        {"name": "Logbook", "description": "Daily checks, fault reports and operation records"},
        {"name": "Checklists", "description": "Checklist template lookup"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate and obtain an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Return the authenticated user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/equipment": {
            "get": {
                "tags": ["Equipment"],
                "summary": "List equipment",
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/equipment/{id}": {
            "get": {
                "tags": ["Equipment"],
                "summary": "Get equipment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/revisions": {
            "get": {
                "tags": ["Revisions"],
                "summary": "List revisions for an equipment",
                "parameters": [
                    {"name": "equipment_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Revisions"],
                "summary": "Create a revision protocol",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RevisionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or reference error"}
                }
            }
        },
        "/revisions/{id}": {
            "get": {
                "tags": ["Revisions"],
                "summary": "Get a revision protocol",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Revisions"],
                "summary": "Update a revision protocol",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RevisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Revisions"],
                "summary": "Delete a revision protocol",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/revisions/follow-up": {
            "post": {
                "tags": ["Revisions"],
                "summary": "Create a follow-up revision from logbook defects",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FollowUpRevisionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/logbook/equipment/{equipment_id}": {
            "get": {
                "tags": ["Logbook"],
                "summary": "List logbook entries for an equipment",
                "parameters": [
                    {"name": "equipment_id", "in": "path", "required": true, "type": "string"},
                    {"name": "entry_type", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/logbook/equipment/{equipment_id}/export": {
            "get": {
                "tags": ["Logbook"],
                "summary": "Export logbook entries as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "equipment_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV file"}
                }
            }
        },
        "/logbook/daily-check": {
            "post": {
                "tags": ["Logbook"],
                "summary": "Record a daily check and evaluate its checklist",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDailyCheckRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or reference error"}
                }
            }
        },
        "/logbook/fault-report": {
            "post": {
                "tags": ["Logbook"],
                "summary": "Record a fault report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateFaultReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/logbook/operation": {
            "post": {
                "tags": ["Logbook"],
                "summary": "Record an operation entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateOperationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/logbook/fault-report/{id}/resolve": {
            "put": {
                "tags": ["Logbook"],
                "summary": "Resolve a fault report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResolveFaultRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/logbook/checklist-template": {
            "get": {
                "tags": ["Checklists"],
                "summary": "Fetch the checklist template for a category and equipment type",
                "parameters": [
                    {"name": "category", "in": "query", "required": true, "type": "string"},
                    {"name": "equipment_type", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RevisionRequest": {
            "type": "object",
            "properties": {
                "equipment_id": {"type": "string"},
                "revision_date": {"type": "string"},
                "next_revision_date": {"type": "string"},
                "control_type": {"type": "string"},
                "evaluation": {"type": "string", "enum": ["passed", "passed_with_remarks", "failed"]},
                "technician": {"type": "string"},
                "notes": {"type": "string"},
                "documentation_check": {"type": "object"},
                "equipment_check": {"type": "object"},
                "functional_test": {"type": "object"},
                "load_test": {"type": "object"},
                "measuring_instruments": {"type": "object"},
                "technical_assessment": {"type": "object"},
                "findings": {"type": "object"}
            },
            "required": ["equipment_id", "revision_date", "control_type", "evaluation"]
        },
        "FollowUpRevisionRequest": {
            "type": "object",
            "properties": {
                "equipment_id": {"type": "string"},
                "control_type": {"type": "string"},
                "technician": {"type": "string"},
                "source_entry_id": {"type": "string"},
                "defects": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/FollowUpDefect"}
                }
            },
            "required": ["equipment_id", "defects"]
        },
        "FollowUpDefect": {
            "type": "object",
            "properties": {
                "item_id": {"type": "string"},
                "section": {"type": "string"},
                "item_name": {"type": "string"},
                "description": {"type": "string"},
                "severity": {"type": "string"}
            }
        },
        "CreateDailyCheckRequest": {
            "type": "object",
            "properties": {
                "equipment_id": {"type": "string"},
                "operator_id": {"type": "string"},
                "entry_date": {"type": "string"},
                "notes": {"type": "string"},
                "daily_checks": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/DailyCheckItemRequest"}
                }
            },
            "required": ["equipment_id", "daily_checks"]
        },
        "DailyCheckItemRequest": {
            "type": "object",
            "properties": {
                "item_id": {"type": "string"},
                "item_name": {"type": "string"},
                "section": {"type": "string"},
                "result": {"type": "string", "enum": ["ok", "defect", "not_checked"]},
                "note": {"type": "string"}
            },
            "required": ["item_name", "result"]
        },
        "CreateFaultReportRequest": {
            "type": "object",
            "properties": {
                "equipment_id": {"type": "string"},
                "operator_id": {"type": "string"},
                "entry_date": {"type": "string"},
                "description": {"type": "string"},
                "severity": {"type": "string", "enum": ["low", "medium", "high", "critical"]},
                "equipment_stopped": {"type": "boolean"}
            },
            "required": ["equipment_id", "description", "severity"]
        },
        "CreateOperationRequest": {
            "type": "object",
            "properties": {
                "equipment_id": {"type": "string"},
                "operator_id": {"type": "string"},
                "entry_date": {"type": "string"},
                "hours_operated": {"type": "number"},
                "load_cycles": {"type": "integer"},
                "max_load_kg": {"type": "number"},
                "notes": {"type": "string"}
            },
            "required": ["equipment_id"]
        },
        "ResolveFaultRequest": {
            "type": "object",
            "properties": {
                "resolved_by": {"type": "string"},
                "resolution_notes": {"type": "string"}
            },
            "required": ["resolved_by"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
