package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Grade Planner API",
        "description": "Weekly schedule planning for university curricula: prerequisite gating, conflict detection, Saturday (ANP) slot allocation and schedule exports.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Sessions", "description": "Planning session lifecycle and schedule mutations"},
        {"name": "Catalog", "description": "Subject catalog reads and CSV import"},
        {"name": "Exports", "description": "Schedule downloads (ICS, PDF, CSV)"},
        {"name": "Health", "description": "Probes"}
    ],
    "paths": {
        "/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Open a planning session",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/sessions/{id}": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Get a session snapshot",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Unknown session"},
                    "410": {"description": "Expired session"}
                }
            }
        },
        "/sessions/{id}/completed": {
            "put": {
                "tags": ["Sessions"],
                "summary": "Replace the completed-subject set",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sessions/{id}/completed/{code}/toggle": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Toggle a completed subject, cascading unmarks",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sessions/{id}/confirmations": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Confirm a minimum-severity prerequisite",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sessions/{id}/evaluate": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Preview the prerequisite gate for a subject",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sessions/{id}/conflict-check": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Preview whether a section fits the schedule",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sessions/{id}/anp-slot": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Preview the next free Saturday pool slot",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sessions/{id}/entries": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Add a subject section to the schedule",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Committed entry or structured rejection"}}
            }
        },
        "/sessions/{id}/entries/{code}": {
            "delete": {
                "tags": ["Sessions"],
                "summary": "Remove a subject, cascading co-requisites",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "Removed codes, requested first"}}
            }
        },
        "/sessions/{id}/available": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List subjects available to plan next",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sessions/{id}/export/ics": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the schedule as an iCalendar feed",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "produces": ["text/calendar"],
                "responses": {"200": {"description": "ICS file"}}
            }
        },
        "/sessions/{id}/export/pdf": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the schedule as a weekly timetable PDF",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "produces": ["application/pdf"],
                "responses": {"200": {"description": "PDF file"}}
            }
        },
        "/sessions/{id}/export/csv": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the schedule summary as CSV",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "produces": ["text/csv"],
                "responses": {"200": {"description": "CSV file"}}
            }
        },
        "/sessions/{id}/export/{format}/share": {
            "post": {
                "tags": ["Exports"],
                "summary": "Create a signed download link for a rendered export",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "path", "required": true, "type": "string", "enum": ["ics", "pdf", "csv"]}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Unsupported format"},
                    "404": {"description": "Session not found"}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List catalog subjects",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/subjects/{code}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get a subject by code",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Unknown subject"}
                }
            }
        },
        "/catalog/import": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Import the subject catalog from CSV",
                "consumes": ["text/csv"],
                "responses": {
                    "200": {"description": "Import report"},
                    "422": {"description": "Import rejected with row findings"}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Catalog storage unavailable"}
                }
            }
        }
    },
    "definitions": {
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
