package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk-api/internal/domain/doctor"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) Create(ctx context.Context, d *doctor.Doctor) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return doctor.ErrDoctorAlreadyExists
		}
		return storeErr("creating doctor", err)
	}
	return nil
}

func (r *DoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, doctor.ErrDoctorNotFound
		}
		return nil, storeErr("fetching doctor", err)
	}
	return &d, nil
}

func (r *DoctorRepository) Update(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand) (*doctor.Doctor, error) {
	d, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.FirstName != nil {
		d.FirstName = *cmd.FirstName
	}
	if cmd.LastName != nil {
		d.LastName = *cmd.LastName
	}
	if cmd.Specialty != nil {
		d.Specialty = *cmd.Specialty
	}
	if cmd.Phone != nil {
		d.Phone = *cmd.Phone
	}
	if cmd.Email != nil {
		d.Email = *cmd.Email
	}
	if cmd.ClinicID != nil {
		d.ClinicID = cmd.ClinicID
	}
	if cmd.SlotDurationMins != nil {
		d.SlotDurationMins = *cmd.SlotDurationMins
	}
	if cmd.ConsultationFee != nil {
		d.ConsultationFee = *cmd.ConsultationFee
	}
	if cmd.Bio != nil {
		d.Bio = *cmd.Bio
	}
	if cmd.Status != nil {
		d.Status = *cmd.Status
	}

	if err := r.db.WithContext(ctx).Save(d).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, doctor.ErrDoctorAlreadyExists
		}
		return nil, storeErr("updating doctor", err)
	}
	return d, nil
}

func (r *DoctorRepository) List(ctx context.Context, q *doctor.ListDoctorsQuery) (*doctor.PagedDoctors, error) {
	tx := r.db.WithContext(ctx).Model(&doctor.Doctor{}).Where("deleted_at IS NULL")

	if q.ClinicID != nil {
		tx = tx.Where("clinic_id = ?", *q.ClinicID)
	}
	if q.Specialty != "" {
		tx = tx.Where("specialty = ?", q.Specialty)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, storeErr("counting doctors", err)
	}

	var doctors []*doctor.Doctor
	err := tx.Order("last_name, first_name").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&doctors).Error
	if err != nil {
		return nil, storeErr("listing doctors", err)
	}

	totalPages := int(total) / q.PageSize
	if int(total)%q.PageSize != 0 {
		totalPages++
	}

	return &doctor.PagedDoctors{
		Doctors:    doctors,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}, nil
}
