package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Resto Menu API",
        "description": "Menu schedule resolution and pricing rule evaluation",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Menu", "description": "Evaluated menus and tenant snapshots"},
        {"name": "Schedules", "description": "Menu schedule management"},
        {"name": "Channels", "description": "Sales channels and operating hours"},
        {"name": "Catalog", "description": "Categories, modifier groups and menu items"},
        {"name": "Pricing", "description": "Pricing rules and price previews"},
        {"name": "Events", "description": "Catalog change events"}
    ],
    "paths": {
        "/menu": {
            "get": {
                "tags": ["Menu"],
                "summary": "Evaluate the menu",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"name": "channelId", "in": "query", "type": "string"},
                    {"name": "at", "in": "query", "type": "string", "format": "date-time"},
                    {"name": "tz", "in": "query", "type": "string"},
                    {"name": "quantity", "in": "query", "type": "integer"},
                    {"name": "prices", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Channel not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/menu/snapshot": {
            "get": {
                "tags": ["Menu"],
                "summary": "Current tenant snapshot",
                "parameters": [{"$ref": "#/parameters/TenantHeader"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List menu schedules",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "channelId", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Create menu schedule",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get menu schedule",
                "parameters": [{"$ref": "#/parameters/TenantHeader"}, {"$ref": "#/parameters/ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Schedules"],
                "summary": "Update menu schedule",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"$ref": "#/parameters/ID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete menu schedule",
                "parameters": [{"$ref": "#/parameters/TenantHeader"}, {"$ref": "#/parameters/ID"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/schedules/{id}/active": {
            "patch": {
                "tags": ["Schedules"],
                "summary": "Activate or deactivate a menu schedule",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"$ref": "#/parameters/ID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetActiveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/channels": {
            "get": {
                "tags": ["Channels"],
                "summary": "List channels",
                "parameters": [{"$ref": "#/parameters/TenantHeader"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Channels"],
                "summary": "Create channel",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChannelRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/channels/{id}": {
            "get": {
                "tags": ["Channels"],
                "summary": "Get channel",
                "parameters": [{"$ref": "#/parameters/TenantHeader"}, {"$ref": "#/parameters/ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Channels"],
                "summary": "Update channel",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"$ref": "#/parameters/ID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChannelRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Channels"],
                "summary": "Delete channel",
                "parameters": [{"$ref": "#/parameters/TenantHeader"}, {"$ref": "#/parameters/ID"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/channels/{id}/status": {
            "get": {
                "tags": ["Channels"],
                "summary": "Channel open/closed status",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"$ref": "#/parameters/ID"},
                    {"name": "at", "in": "query", "type": "string", "format": "date-time"},
                    {"name": "tz", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/categories": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List categories",
                "parameters": [{"$ref": "#/parameters/TenantHeader"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Create category",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CategoryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/categories/{id}": {
            "put": {
                "tags": ["Catalog"],
                "summary": "Update category",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"$ref": "#/parameters/ID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CategoryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Delete category",
                "parameters": [{"$ref": "#/parameters/TenantHeader"}, {"$ref": "#/parameters/ID"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/modifier-groups": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List modifier groups",
                "parameters": [{"$ref": "#/parameters/TenantHeader"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Create modifier group",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ModifierGroupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/modifier-groups/{id}": {
            "delete": {
                "tags": ["Catalog"],
                "summary": "Delete modifier group",
                "parameters": [{"$ref": "#/parameters/TenantHeader"}, {"$ref": "#/parameters/ID"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/items": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List menu items",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "available", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Create menu item",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MenuItemRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/items/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get menu item",
                "parameters": [{"$ref": "#/parameters/TenantHeader"}, {"$ref": "#/parameters/ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Catalog"],
                "summary": "Update menu item",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"$ref": "#/parameters/ID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MenuItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Delete menu item",
                "parameters": [{"$ref": "#/parameters/TenantHeader"}, {"$ref": "#/parameters/ID"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/items/{id}/pricing-rules": {
            "get": {
                "tags": ["Pricing"],
                "summary": "List pricing rules of a menu item",
                "parameters": [{"$ref": "#/parameters/TenantHeader"}, {"$ref": "#/parameters/ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Pricing"],
                "summary": "Create pricing rule",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"$ref": "#/parameters/ID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PricingRuleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/items/{id}/price-preview": {
            "post": {
                "tags": ["Pricing"],
                "summary": "Preview the price of a menu item",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"$ref": "#/parameters/ID"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/PricePreviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pricing-rules/{id}": {
            "get": {
                "tags": ["Pricing"],
                "summary": "Get pricing rule",
                "parameters": [{"$ref": "#/parameters/TenantHeader"}, {"$ref": "#/parameters/ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Pricing"],
                "summary": "Update pricing rule",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"$ref": "#/parameters/ID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PricingRuleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Pricing"],
                "summary": "Delete pricing rule",
                "parameters": [{"$ref": "#/parameters/TenantHeader"}, {"$ref": "#/parameters/ID"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/pricing-rules/{id}/active": {
            "patch": {
                "tags": ["Pricing"],
                "summary": "Activate or deactivate a pricing rule",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"$ref": "#/parameters/ID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetActiveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/export": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Export the menu catalog",
                "produces": ["text/csv", "application/json", "application/pdf"],
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "json", "pdf"]}
                ],
                "responses": {"200": {"description": "Catalog file"}}
            }
        },
        "/catalog/import": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Import menu items from CSV or JSON",
                "consumes": ["multipart/form-data", "text/csv", "application/json"],
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"name": "file", "in": "formData", "type": "file"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "json"]}
                ],
                "responses": {
                    "200": {"description": "Import report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events": {
            "post": {
                "tags": ["Events"],
                "summary": "Ingest a catalog change event",
                "parameters": [
                    {"$ref": "#/parameters/TenantHeader"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "parameters": {
        "TenantHeader": {"name": "X-Tenant-ID", "in": "header", "type": "string", "required": true},
        "ID": {"name": "id", "in": "path", "type": "string", "required": true}
    },
    "definitions": {
        "TimeSlot": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "startTime": {"type": "string", "example": "11:00"},
                "endTime": {"type": "string", "example": "14:30"},
                "daysOfWeek": {"type": "array", "items": {"type": "integer"}},
                "menuItems": {"type": "array", "items": {"type": "string"}},
                "categories": {"type": "array", "items": {"type": "string"}},
                "modifierGroups": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["startTime", "endTime"]
        },
        "DateSlot": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "startDate": {"type": "string", "example": "2024-12-24"},
                "endDate": {"type": "string", "example": "2024-12-26"},
                "menuItems": {"type": "array", "items": {"type": "string"}},
                "categories": {"type": "array", "items": {"type": "string"}},
                "modifierGroups": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["startDate", "endDate"]
        },
        "ScheduleRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "isActive": {"type": "boolean"},
                "scheduleType": {"type": "string", "enum": ["time-based", "date-based", "recurring"]},
                "timeSlots": {"type": "array", "items": {"$ref": "#/definitions/TimeSlot"}},
                "dateSlots": {"type": "array", "items": {"$ref": "#/definitions/DateSlot"}},
                "priority": {"type": "integer"},
                "applicableChannels": {"type": "array", "items": {"type": "string"}},
                "settings": {
                    "type": "object",
                    "properties": {
                        "autoSwitch": {"type": "boolean"},
                        "showUpcomingItems": {"type": "boolean"},
                        "upcomingItemsMinutes": {"type": "integer"},
                        "hideUnavailableItems": {"type": "boolean"}
                    }
                }
            },
            "required": ["name", "scheduleType"]
        },
        "SetActiveRequest": {
            "type": "object",
            "properties": {"isActive": {"type": "boolean"}},
            "required": ["isActive"]
        },
        "DayHours": {
            "type": "object",
            "properties": {
                "day": {"type": "integer", "minimum": 0, "maximum": 6},
                "open": {"type": "string", "example": "09:00"},
                "close": {"type": "string", "example": "22:00"},
                "isClosed": {"type": "boolean"}
            }
        },
        "ChannelRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["dine-in", "takeaway", "delivery", "online"]},
                "isActive": {"type": "boolean"},
                "operatingHours": {"type": "array", "items": {"$ref": "#/definitions/DayHours"}}
            },
            "required": ["name", "type"]
        },
        "CategoryRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "slug": {"type": "string"},
                "description": {"type": "string"},
                "sort_order": {"type": "integer"},
                "is_active": {"type": "boolean"}
            },
            "required": ["name"]
        },
        "ModifierGroupRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "min_selections": {"type": "integer"},
                "max_selections": {"type": "integer"}
            },
            "required": ["name"]
        },
        "MenuItemRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "price": {"type": "number"},
                "cost": {"type": "number"},
                "allergens": {"type": "array", "items": {"type": "string"}},
                "dietary_tags": {"type": "array", "items": {"type": "string"}},
                "modifier_groups": {"type": "array", "items": {"type": "string"}},
                "is_available": {"type": "boolean"}
            },
            "required": ["name", "category"]
        },
        "PricingRuleRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["time_based", "day_of_week", "quantity_based", "percentage_discount", "fixed_discount"]},
                "priority": {"type": "integer"},
                "isActive": {"type": "boolean"},
                "timeRules": {"type": "array", "items": {"type": "object"}},
                "dayOfWeekRules": {"type": "array", "items": {"type": "object"}},
                "quantityRules": {"type": "array", "items": {"type": "object"}},
                "value": {"type": "number"}
            },
            "required": ["name", "type"]
        },
        "PricePreviewRequest": {
            "type": "object",
            "properties": {
                "at": {"type": "string", "format": "date-time"},
                "tz": {"type": "string"},
                "quantity": {"type": "integer"},
                "rules": {"type": "array", "items": {"type": "object"}}
            }
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
