package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk-api/internal/domain/doctor"
)

type DoctorService struct {
	repo            doctor.Repository
	auditSvc        *AuditService
	defaultSlotMins int
	log             *zap.Logger
}

func NewDoctorService(repo doctor.Repository, auditSvc *AuditService, defaultSlotMins int, log *zap.Logger) *DoctorService {
	return &DoctorService{repo: repo, auditSvc: auditSvc, defaultSlotMins: defaultSlotMins, log: log}
}

func (s *DoctorService) RegisterDoctor(ctx context.Context, cmd *doctor.CreateDoctorCommand, callerID uuid.UUID, callerRole string, ip string) (*doctor.Doctor, error) {
	var fields []string
	if cmd.FirstName == "" {
		fields = append(fields, "first_name is required")
	}
	if cmd.LastName == "" {
		fields = append(fields, "last_name is required")
	}
	if cmd.Email == "" {
		fields = append(fields, "email is required")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if cmd.SlotDurationMins == 0 {
		cmd.SlotDurationMins = s.defaultSlotMins
	}
	if cmd.SlotDurationMins < 5 || cmd.SlotDurationMins > 240 {
		return nil, doctor.ErrInvalidSlotDuration
	}

	d := &doctor.Doctor{
		FirstName:        cmd.FirstName,
		LastName:         cmd.LastName,
		Specialty:        cmd.Specialty,
		Phone:            cmd.Phone,
		Email:            cmd.Email,
		ClinicID:         cmd.ClinicID,
		SlotDurationMins: cmd.SlotDurationMins,
		ConsultationFee:  cmd.ConsultationFee,
		Bio:              cmd.Bio,
		Status:           doctor.StatusActive,
		CreatedBy:        cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		s.log.Error("failed to create doctor", zap.Error(err))
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "doctor",
		ResourceID:   d.ID.String(),
		IPAddress:    ip,
	})

	return d, nil
}

func (s *DoctorService) GetDoctor(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DoctorService) UpdateDoctor(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand, callerID uuid.UUID, callerRole string, ip string) (*doctor.Doctor, error) {
	if cmd.SlotDurationMins != nil && (*cmd.SlotDurationMins < 5 || *cmd.SlotDurationMins > 240) {
		return nil, doctor.ErrInvalidSlotDuration
	}

	d, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "doctor",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return d, nil
}

func (s *DoctorService) ListDoctors(ctx context.Context, q *doctor.ListDoctorsQuery) (*doctor.PagedDoctors, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}
