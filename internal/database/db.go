package database

import (
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite" // SQLite driver
)

// Open opens the local state database and migrates its schema. The console
// uses it the way the browser used localStorage: to survive restarts, not as
// a source of truth for live data.
func Open(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&SessionRecord{}).Error; err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// SessionRecord is the persisted operator session: bearer token, identity
// claims, and the last selected restaurant scope. A single row with a fixed
// primary key; replaced on login, deleted on logout.
type SessionRecord struct {
	ID             uint `gorm:"primary_key"`
	Token          string
	AdminID        string
	Name           string
	Email          string
	Role           string
	RestaurantID   string
	RestaurantName string
	SelectedScope  string
}

const sessionRowID = 1

// SaveSession replaces the persisted session.
func SaveSession(db *gorm.DB, record SessionRecord) error {
	record.ID = sessionRowID
	if err := db.Delete(&SessionRecord{}, "id = ?", sessionRowID).Error; err != nil {
		return err
	}
	return db.Create(&record).Error
}

// LoadSession returns the persisted session, or found=false when none exists.
func LoadSession(db *gorm.DB) (SessionRecord, bool, error) {
	var record SessionRecord
	err := db.First(&record, "id = ?", sessionRowID).Error
	if gorm.IsRecordNotFoundError(err) {
		return record, false, nil
	}
	if err != nil {
		return record, false, err
	}
	return record, true, nil
}

// ClearSession deletes the persisted session.
func ClearSession(db *gorm.DB) error {
	return db.Delete(&SessionRecord{}, "id = ?", sessionRowID).Error
}

// SaveScope updates only the persisted restaurant scope.
func SaveScope(db *gorm.DB, scope string) error {
	return db.Model(&SessionRecord{}).Where("id = ?", sessionRowID).
		Update("selected_scope", scope).Error
}
