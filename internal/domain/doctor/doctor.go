package doctor

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a doctor record.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Doctor struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"` // Soft Delete

	FirstName string `gorm:"column:first_name;type:varchar(100);not null"`
	LastName  string `gorm:"column:last_name;type:varchar(100);not null"`
	Specialty string `gorm:"column:specialty;type:varchar(100)"`

	Phone string `gorm:"column:phone;type:varchar(20)"`
	Email string `gorm:"column:email;type:varchar(255);uniqueIndex"`

	// Nil means an independent practitioner not attached to any clinic.
	ClinicID *uuid.UUID `gorm:"column:clinic_id;type:uuid;index"`

	// Length of one bookable slot. Seeds from the clinic-wide default at
	// registration and is rarely changed afterwards.
	SlotDurationMins int `gorm:"column:slot_duration_mins;not null;default:30"`

	ConsultationFee int    `gorm:"column:consultation_fee;default:0"`
	Bio             string `gorm:"column:bio;type:text"`

	Status Status `gorm:"column:status;type:varchar(20);default:'active';index"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Doctor) TableName() string {
	return "clinical.doctors"
}

func (d *Doctor) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

func (d *Doctor) IsActive() bool {
	return d.Status == StatusActive && d.DeletedAt == nil
}

type CreateDoctorCommand struct {
	FirstName        string
	LastName         string
	Specialty        string
	Phone            string
	Email            string
	ClinicID         *uuid.UUID
	SlotDurationMins int
	ConsultationFee  int
	Bio              string
	CreatedBy        uuid.UUID
}

type UpdateDoctorCommand struct {
	FirstName        *string
	LastName         *string
	Specialty        *string
	Phone            *string
	Email            *string
	ClinicID         *uuid.UUID
	SlotDurationMins *int
	ConsultationFee  *int
	Bio              *string
	Status           *Status
	UpdatedBy        uuid.UUID
}

// ListDoctorsQuery defines filtering and pagination for doctor list queries.
type ListDoctorsQuery struct {
	ClinicID  *uuid.UUID
	Specialty string
	Status    *Status
	Page      int
	PageSize  int
}

type PagedDoctors struct {
	Doctors    []*Doctor
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
