package domain

// EntityType identifies a core CRM record kind. Tasks and notes attach to
// entities by (type, id) pair; custom field definitions are scoped by type.
type EntityType string

const (
	EntityTypeCompany EntityType = "company"
	EntityTypeContact EntityType = "contact"
	EntityTypeDeal    EntityType = "deal"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeCompany, EntityTypeContact, EntityTypeDeal:
		return true
	}
	return false
}

// FieldKind is the value type of an administrator-defined custom field.
type FieldKind string

const (
	FieldKindText    FieldKind = "text"
	FieldKindNumber  FieldKind = "number"
	FieldKindDate    FieldKind = "date"
	FieldKindEnum    FieldKind = "enum"
	FieldKindBoolean FieldKind = "boolean"
)

func (k FieldKind) String() string { return string(k) }

func (k FieldKind) IsValid() bool {
	switch k {
	case FieldKindText, FieldKindNumber, FieldKindDate, FieldKindEnum, FieldKindBoolean:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusOpen   TaskStatus = "open"
	TaskStatusClosed TaskStatus = "closed"
)

func (s TaskStatus) String() string { return string(s) }

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusClosed:
		return true
	}
	return false
}

// AuditAction is the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete:
		return true
	}
	return false
}
