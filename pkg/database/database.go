package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clinicdesk/clinicdesk-api/internal/config"
	"github.com/clinicdesk/clinicdesk-api/internal/domain"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/doctor"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:    true,
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"clinical", "auth", "audit"} // logical namespace
	for _, s := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", s)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", s, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&doctor.Doctor{},
		&schedule.WeeklySchedule{},
		&schedule.LeaveEntry{},
		&appointment.Appointment{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// Double-booking gate: one occupying appointment per doctor/date/slot.
		// The booking path relies on this constraint under concurrent writes.
		{
			name:  "uq_appointments_slot_occupied",
			query: `CREATE UNIQUE INDEX IF NOT EXISTS uq_appointments_slot_occupied ON clinical.appointments (doctor_id, appointment_date, start_time) WHERE deleted_at IS NULL AND status IN ('scheduled', 'completed')`,
		},
		// One active leave entry per doctor and date.
		{
			name:  "uq_leaves_doctor_date",
			query: `CREATE UNIQUE INDEX IF NOT EXISTS uq_leaves_doctor_date ON clinical.leave_entries (doctor_id, leave_date)`,
		},
		{
			name:  "idx_appointments_day_lookup",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_day_lookup ON clinical.appointments (doctor_id, appointment_date, status) WHERE deleted_at IS NULL`,
		},
		{
			name:  "idx_doctors_clinic",
			query: `CREATE INDEX IF NOT EXISTS idx_doctors_clinic ON clinical.doctors (clinic_id, status) WHERE deleted_at IS NULL`,
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}
