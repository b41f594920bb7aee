package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Escuela de Música API",
        "description": "Administración de profesores, usuarios, beneficiarios, ventas y catálogos.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": ["http"],
    "securityDefinitions": {"BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}},
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Auth", "description": "Login and session"},
        {"name": "Profesores", "description": "Teachers and their user accounts"},
        {"name": "Usuarios", "description": "User accounts"},
        {"name": "Ventas", "description": "Course and enrollment sales"},
        {"name": "Contador", "description": "Sale code counters"},
        {"name": "Roles", "description": "Roles and user-role assignments"},
        {"name": "Beneficiarios", "description": "Beneficiaries and clients"},
        {"name": "Aulas", "description": "Classrooms"},
        {"name": "Cursos", "description": "Courses"},
        {"name": "Matriculas", "description": "Enrollment types"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/LoginRequest"}
                    }
                ]
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current session",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/profesores": {
            "get": {
                "tags": ["Profesores"],
                "summary": "List teacher",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"},
                    {"name": "usuarioId", "in": "query", "type": "string"}
                ]
            },
            "post": {
                "tags": ["Profesores"],
                "summary": "Create teacher",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or duplicate", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateTeacherRequest"}
                    }
                ]
            }
        },
        "/profesores/{id}": {
            "get": {
                "tags": ["Profesores"],
                "summary": "Get teacher",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            },
            "put": {
                "tags": ["Profesores"],
                "summary": "Update teacher",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateTeacherRequest"}
                    }
                ]
            },
            "delete": {
                "tags": ["Profesores"],
                "summary": "Delete teacher",
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Blocked by associated records",
                        "schema": {"$ref": "#/definitions/APIError"}
                    },
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            }
        },
        "/profesores/especialidad/{especialidad}": {
            "get": {
                "tags": ["Profesores"],
                "summary": "List teachers holding a specialty",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"name": "especialidad", "in": "path", "type": "string", "required": true}]
            }
        },
        "/profesores/estado/{estado}": {
            "get": {
                "tags": ["Profesores"],
                "summary": "List teachers by status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"name": "estado", "in": "path", "type": "string", "required": true}]
            }
        },
        "/profesores/{id}/estado": {
            "patch": {
                "tags": ["Profesores"],
                "summary": "Change teacher status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateTeacherStatusRequest"}
                    }
                ]
            }
        },
        "/usuarios": {
            "get": {
                "tags": ["Usuarios"],
                "summary": "List user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ]
            },
            "post": {
                "tags": ["Usuarios"],
                "summary": "Create user",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or duplicate", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateUserRequest"}
                    }
                ]
            }
        },
        "/usuarios/{id}": {
            "get": {
                "tags": ["Usuarios"],
                "summary": "Get user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            },
            "put": {
                "tags": ["Usuarios"],
                "summary": "Update user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateUserRequest"}
                    }
                ]
            },
            "delete": {
                "tags": ["Usuarios"],
                "summary": "Delete user",
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Blocked by associated records",
                        "schema": {"$ref": "#/definitions/APIError"}
                    },
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            }
        },
        "/ventas": {
            "get": {
                "tags": ["Ventas"],
                "summary": "List sale",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ]
            },
            "post": {
                "tags": ["Ventas"],
                "summary": "Create sale",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or duplicate", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateSaleRequest"}
                    }
                ]
            }
        },
        "/ventas/{id}": {
            "get": {
                "tags": ["Ventas"],
                "summary": "Get sale",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            },
            "put": {
                "tags": ["Ventas"],
                "summary": "Update sale",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateSaleRequest"}
                    }
                ]
            },
            "delete": {
                "tags": ["Ventas"],
                "summary": "Delete sale",
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Blocked by associated records",
                        "schema": {"$ref": "#/definitions/APIError"}
                    },
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            }
        },
        "/ventas/{id}/anular": {
            "patch": {
                "tags": ["Ventas"],
                "summary": "Cancel sale",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CancelSaleRequest"}
                    }
                ]
            }
        },
        "/ventas/next-consecutivo": {
            "get": {
                "tags": ["Ventas"],
                "summary": "Preview the next consecutive number",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"name": "tipo", "in": "query", "type": "string", "enum": ["curso", "matricula"]}]
            }
        },
        "/ventas/export": {
            "get": {
                "tags": ["Ventas"],
                "summary": "Export sales",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}}
            }
        },
        "/contador/{tipo}/incrementar": {
            "patch": {
                "tags": ["Contador"],
                "summary": "Reserve the next sale code",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"name": "tipo", "in": "path", "type": "string", "required": true}]
            }
        },
        "/roles": {
            "get": {
                "tags": ["Roles"],
                "summary": "List roles",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/roles/{id}": {
            "get": {
                "tags": ["Roles"],
                "summary": "Get role",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            }
        },
        "/usuarios_has_rol": {
            "get": {
                "tags": ["Roles"],
                "summary": "List role assignments",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Roles"],
                "summary": "Assign a role to a user",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or duplicate", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateRoleAssignmentRequest"}
                    }
                ]
            }
        },
        "/usuarios_has_rol/{id}": {
            "delete": {
                "tags": ["Roles"],
                "summary": "Remove a role assignment",
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Blocked by associated records",
                        "schema": {"$ref": "#/definitions/APIError"}
                    },
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            }
        },
        "/usuarios_has_rol/usuario/{usuarioId}": {
            "get": {
                "tags": ["Roles"],
                "summary": "List role assignments of a user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"name": "usuarioId", "in": "path", "type": "string", "required": true}]
            },
            "delete": {
                "tags": ["Roles"],
                "summary": "Remove every role assignment of a user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"name": "usuarioId", "in": "path", "type": "string", "required": true}]
            }
        },
        "/beneficiarios": {
            "get": {
                "tags": ["Beneficiarios"],
                "summary": "List beneficiary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ]
            },
            "post": {
                "tags": ["Beneficiarios"],
                "summary": "Create beneficiary",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or duplicate", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateBeneficiaryRequest"}
                    }
                ]
            }
        },
        "/beneficiarios/{id}": {
            "get": {
                "tags": ["Beneficiarios"],
                "summary": "Get beneficiary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            },
            "put": {
                "tags": ["Beneficiarios"],
                "summary": "Update beneficiary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateBeneficiaryRequest"}
                    }
                ]
            },
            "delete": {
                "tags": ["Beneficiarios"],
                "summary": "Delete beneficiary",
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Blocked by associated records",
                        "schema": {"$ref": "#/definitions/APIError"}
                    },
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            }
        },
        "/aulas": {
            "get": {
                "tags": ["Aulas"],
                "summary": "List classroom",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ]
            },
            "post": {
                "tags": ["Aulas"],
                "summary": "Create classroom",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or duplicate", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ClassroomRequest"}
                    }
                ]
            }
        },
        "/aulas/{id}": {
            "get": {
                "tags": ["Aulas"],
                "summary": "Get classroom",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            },
            "put": {
                "tags": ["Aulas"],
                "summary": "Update classroom",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ClassroomRequest"}
                    }
                ]
            },
            "delete": {
                "tags": ["Aulas"],
                "summary": "Delete classroom",
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Blocked by associated records",
                        "schema": {"$ref": "#/definitions/APIError"}
                    },
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            }
        },
        "/cursos": {
            "get": {
                "tags": ["Cursos"],
                "summary": "List course",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ]
            },
            "post": {
                "tags": ["Cursos"],
                "summary": "Create course",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or duplicate", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CourseRequest"}
                    }
                ]
            }
        },
        "/cursos/{id}": {
            "get": {
                "tags": ["Cursos"],
                "summary": "Get course",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            },
            "put": {
                "tags": ["Cursos"],
                "summary": "Update course",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CourseRequest"}
                    }
                ]
            },
            "delete": {
                "tags": ["Cursos"],
                "summary": "Delete course",
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Blocked by associated records",
                        "schema": {"$ref": "#/definitions/APIError"}
                    },
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            }
        },
        "/matriculas": {
            "get": {
                "tags": ["Matriculas"],
                "summary": "List enrollment type",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ]
            },
            "post": {
                "tags": ["Matriculas"],
                "summary": "Create enrollment type",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or duplicate", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/EnrollmentTypeRequest"}
                    }
                ]
            }
        },
        "/matriculas/{id}": {
            "get": {
                "tags": ["Matriculas"],
                "summary": "Get enrollment type",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            },
            "put": {
                "tags": ["Matriculas"],
                "summary": "Update enrollment type",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/EnrollmentTypeRequest"}
                    }
                ]
            },
            "delete": {
                "tags": ["Matriculas"],
                "summary": "Delete enrollment type",
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Blocked by associated records",
                        "schema": {"$ref": "#/definitions/APIError"}
                    },
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                },
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}]
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["correo", "contrasena"],
            "properties": {"correo": {"type": "string"}, "contrasena": {"type": "string"}}
        },
        "CreateTeacherRequest": {
            "type": "object",
            "required": [
                "nombres",
                "apellidos",
                "tipoDocumento",
                "identificacion",
                "telefono",
                "correo",
                "contrasena",
                "especialidades"
            ],
            "properties": {
                "nombres": {"type": "string"},
                "apellidos": {"type": "string"},
                "tipoDocumento": {"type": "string", "enum": ["TI", "CC", "CE", "PP", "NIT"]},
                "identificacion": {"type": "string"},
                "telefono": {"type": "string"},
                "direccion": {"type": "string"},
                "correo": {"type": "string"},
                "contrasena": {"type": "string"},
                "especialidades": {"type": "array", "items": {"type": "string"}},
                "estado": {"type": "string"}
            }
        },
        "UpdateTeacherRequest": {
            "type": "object",
            "properties": {
                "nombres": {"type": "string"},
                "apellidos": {"type": "string"},
                "tipoDocumento": {"type": "string"},
                "identificacion": {"type": "string"},
                "telefono": {"type": "string"},
                "direccion": {"type": "string"},
                "correo": {"type": "string"},
                "especialidades": {"type": "array", "items": {"type": "string"}},
                "estado": {"type": "string"},
                "usuarioId": {"type": "string"}
            }
        },
        "UpdateTeacherStatusRequest": {
            "type": "object",
            "required": ["estado"],
            "properties": {"estado": {"type": "string", "enum": ["Activo", "Inactivo", "Pendiente", "Suspendido"]}}
        },
        "CreateUserRequest": {
            "type": "object",
            "required": ["nombre", "apellido", "correo", "contrasena", "tipo_de_documento", "documento"],
            "properties": {
                "nombre": {"type": "string"},
                "apellido": {"type": "string"},
                "correo": {"type": "string"},
                "contrasena": {"type": "string"},
                "tipo_de_documento": {"type": "string"},
                "documento": {"type": "string"},
                "rol": {"type": "string"},
                "estado": {"type": "boolean"},
                "esProfesor": {"type": "boolean"},
                "telefono": {"type": "string"},
                "direccion": {"type": "string"},
                "especialidades": {"type": "array", "items": {"type": "string"}}
            }
        },
        "UpdateUserRequest": {
            "type": "object",
            "properties": {
                "nombre": {"type": "string"},
                "apellido": {"type": "string"},
                "correo": {"type": "string"},
                "contrasena": {"type": "string"},
                "tipo_de_documento": {"type": "string"},
                "documento": {"type": "string"},
                "rol": {"type": "string"},
                "estado": {"type": "boolean"},
                "esProfesor": {"type": "boolean"},
                "telefono": {"type": "string"},
                "direccion": {"type": "string"},
                "especialidades": {"type": "array", "items": {"type": "string"}}
            }
        },
        "CreateSaleRequest": {
            "type": "object",
            "required": ["tipo", "beneficiarioId", "valor_total", "fechaInicio"],
            "properties": {
                "tipo": {"type": "string", "enum": ["curso", "matricula"]},
                "beneficiarioId": {"type": "string"},
                "cursoId": {"type": "string"},
                "matriculaId": {"type": "string"},
                "fechaInicio": {"type": "string", "format": "date"},
                "fechaFin": {"type": "string", "format": "date"},
                "numero_de_clases": {"type": "integer"},
                "ciclo": {"type": "integer"},
                "valor_total": {"type": "number"},
                "descuento": {"type": "number"},
                "observaciones": {"type": "string"},
                "consecutivo": {"type": "integer"},
                "codigoVenta": {"type": "string"},
                "metodoPago": {"type": "string"},
                "numeroTransaccion": {"type": "string"}
            }
        },
        "UpdateSaleRequest": {
            "type": "object",
            "properties": {
                "fechaInicio": {"type": "string", "format": "date"},
                "fechaFin": {"type": "string", "format": "date"},
                "numero_de_clases": {"type": "integer"},
                "ciclo": {"type": "integer"},
                "valor_total": {"type": "number"},
                "descuento": {"type": "number"},
                "observaciones": {"type": "string"},
                "estado": {"type": "string"}
            }
        },
        "CancelSaleRequest": {
            "type": "object",
            "required": ["motivoAnulacion"],
            "properties": {"motivoAnulacion": {"type": "string"}}
        },
        "CreateRoleAssignmentRequest": {
            "type": "object",
            "required": ["usuarioId", "rolId"],
            "properties": {
                "usuarioId": {"type": "string"},
                "rolId": {"type": "string"},
                "esPrincipal": {"type": "boolean"}
            }
        },
        "Account": {
            "type": "object",
            "required": ["contrasena"],
            "properties": {"correo": {"type": "string"}, "contrasena": {"type": "string"}}
        },
        "CreateBeneficiaryRequest": {
            "type": "object",
            "required": [
                "nombre",
                "apellido",
                "tipo_de_documento",
                "numero_de_documento",
                "telefono",
                "direccion",
                "fechaDeNacimiento",
                "correo"
            ],
            "properties": {
                "nombre": {"type": "string"},
                "apellido": {"type": "string"},
                "tipo_de_documento": {"type": "string"},
                "numero_de_documento": {"type": "string"},
                "telefono": {"type": "string"},
                "direccion": {"type": "string"},
                "fechaDeNacimiento": {"type": "string", "format": "date"},
                "correo": {"type": "string"},
                "clienteId": {"type": "string"},
                "esCliente": {"type": "boolean"},
                "estado": {"type": "boolean"},
                "cuenta": {"$ref": "#/definitions/Account"}
            }
        },
        "UpdateBeneficiaryRequest": {
            "type": "object",
            "properties": {
                "nombre": {"type": "string"},
                "apellido": {"type": "string"},
                "tipo_de_documento": {"type": "string"},
                "numero_de_documento": {"type": "string"},
                "telefono": {"type": "string"},
                "direccion": {"type": "string"},
                "fechaDeNacimiento": {"type": "string", "format": "date"},
                "correo": {"type": "string"},
                "clienteId": {"type": "string"},
                "estado": {"type": "boolean"}
            }
        },
        "ClassroomRequest": {
            "type": "object",
            "required": ["numeroAula", "capacidad"],
            "properties": {
                "numeroAula": {"type": "string"},
                "capacidad": {"type": "integer"},
                "estado": {"type": "boolean"}
            }
        },
        "CourseRequest": {
            "type": "object",
            "required": ["nombre", "valor_por_hora"],
            "properties": {
                "nombre": {"type": "string"},
                "descripcion": {"type": "string"},
                "valor_por_hora": {"type": "number"},
                "estado": {"type": "boolean"}
            }
        },
        "EnrollmentTypeRequest": {
            "type": "object",
            "required": ["nombre", "valorMatricula"],
            "properties": {
                "nombre": {"type": "string"},
                "valorMatricula": {"type": "number"},
                "estado": {"type": "boolean"}
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
        "AssociatedRecord": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "tipo": {"type": "string"}, "descripcion": {"type": "string"}}
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "string"},
                "errors": {"type": "array", "items": {"type": "string"}},
                "associatedRecords": {"type": "array", "items": {"$ref": "#/definitions/AssociatedRecord"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
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
