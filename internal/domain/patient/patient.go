package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

// Status represents the lifecycle state of a patient record.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeceased Status = "deceased"
)

// Patient is the community registry entry a case points at. Registration
// happens in the field, so contact details are sparse by design: a village
// and a phone number are often all a recorder has.
type Patient struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"` // Soft Delete

	FirstName   string    `gorm:"column:first_name;type:varchar(100);not null"`
	LastName    string    `gorm:"column:last_name;type:varchar(100);not null"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;not null"`
	Gender      Gender    `gorm:"column:gender;type:varchar(20);not null"`
	NationalID  string    `gorm:"column:national_id;type:varchar(50);uniqueIndex"`

	Village      string `gorm:"column:village;type:varchar(100);index"`
	Phone        string `gorm:"column:phone;type:varchar(20)"`
	GuardianName string `gorm:"column:guardian_name;type:varchar(100)"`

	// Set when an antenatal/postnatal episode is open for this patient.
	IsPregnant        bool     `gorm:"column:is_pregnant;default:false;index"`
	ChronicConditions []string `gorm:"column:chronic_conditions;serializer:json"`

	Status Status `gorm:"column:status;type:varchar(20);default:'active';index"`
	Notes  string `gorm:"column:notes;type:text"` // PHI

	// Audit: who registered this patient and when
	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p *Patient) Age() int {
	now := time.Now()
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}

func (p *Patient) IsActive() bool {
	return p.Status == StatusActive && p.DeletedAt == nil
}

func (p *Patient) Deactivate() error {
	if p.Status == StatusDeceased {
		return ErrPatientDeceased
	}
	p.Status = StatusInactive
	return nil
}

func (p *Patient) MarkDeceased() {
	p.Status = StatusDeceased
}

type CreatePatientCommand struct {
	FirstName         string
	LastName          string
	DateOfBirth       time.Time
	Gender            Gender
	NationalID        string
	Village           string
	Phone             string
	GuardianName      string
	IsPregnant        bool
	ChronicConditions []string
	Notes             string
	CreatedBy         uuid.UUID
}

// ListPatientsQuery defines filtering and pagination for patient list queries.
type ListPatientsQuery struct {
	Search     string // Full-text search on name
	Status     *Status
	Village    *string
	IsPregnant *bool
	Page       int
	PageSize   int
}

type PagedPatients struct {
	Patients   []*Patient
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
