package testutil

import (
	"testing"

	"github.com/leadline-crm/leadline-api/internal/database"
	"github.com/leadline-crm/leadline-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a per-test in-memory SQLite database with the full
// schema migrated. Each test gets its own database, so no cleanup between
// tests is needed.
func SetupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_fk=1&mode=memory&name="+t.Name()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory test database")

	require.NoError(t, database.AutoMigrate(db), "Failed to migrate test schema")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// CreateTestUser creates an active employee user
func CreateTestUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	user := &domain.User{
		Email:       email,
		DisplayName: "Test Employee",
		IsActive:    true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestLead creates a lead with the given phone number
func CreateTestLead(t *testing.T, db *gorm.DB, name, phoneNumber string) *domain.Lead {
	lead := &domain.Lead{
		Name:        name,
		PhoneNumber: phoneNumber,
		Email:       "lead@example.com",
	}
	require.NoError(t, db.Create(lead).Error)
	return lead
}

// CreateTestProfile creates an employee profile with a phone destination
func CreateTestProfile(t *testing.T, db *gorm.DB, user *domain.User, phoneNumber string) *domain.EmployeeProfile {
	profile := &domain.EmployeeProfile{
		UserID:      user.ID,
		PhoneNumber: phoneNumber,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

// CreateTestSipAccount creates a SIP account for the user
func CreateTestSipAccount(t *testing.T, db *gorm.DB, user *domain.User, username, domainName string, active bool) *domain.SipAccount {
	account := &domain.SipAccount{
		UserID:      user.ID,
		SipUsername: username,
		SipDomain:   domainName,
		IsActive:    active,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}
